package i18n

// Keys are AppError codes.
var italian = map[string]string{
	"SILENCE_DAY":             "La data scelta cade in un giorno di silenzio venatorio.",
	"OUTSIDE_BOOKING_WINDOW":  "Le prenotazioni sono aperte solo nella fascia serale e per il giorno successivo.",
	"ZONE_SLOT_TAKEN":         "La zona è già prenotata per questa data e fascia oraria.",
	"ZONE_COOLDOWN_ACTIVE":    "Non puoi prenotare di nuovo questa zona prima della fine del periodo di attesa.",
	"HARVEST_LIMIT_REACHED":   "Hai raggiunto il limite di prelievo previsto per questa specie.",
	"QUOTA_EXHAUSTED":         "Quota esaurita per la specie e categoria richieste.",
	"QUOTA_ROW_NOT_FOUND":     "Nessuna quota configurata per la specie e categoria richieste.",
	"INVALID_RULE_SHAPE":      "La regola non è valida per il tipo selezionato.",
	"ALREADY_DRAWN":           "L'estrazione di questa lotteria è già stata effettuata.",
	"REGISTRATION_CLOSED":     "Le iscrizioni a questa lotteria sono chiuse.",
	"DUPLICATE_PARTICIPATION": "Sei già iscritto a questa lotteria.",
	"UNAUTHORIZED":            "Autenticazione richiesta.",
	"FORBIDDEN":               "Non hai i permessi per questa operazione.",
}

var english = map[string]string{
	"SILENCE_DAY":             "The selected date falls on a hunting silence day.",
	"OUTSIDE_BOOKING_WINDOW":  "Bookings are only open during the evening window and for the following day.",
	"ZONE_SLOT_TAKEN":         "The zone is already booked for this date and time slot.",
	"ZONE_COOLDOWN_ACTIVE":    "You cannot book this zone again until the cooldown period ends.",
	"HARVEST_LIMIT_REACHED":   "You have reached the harvest limit for this species.",
	"QUOTA_EXHAUSTED":         "The quota for the requested species and category is exhausted.",
	"QUOTA_ROW_NOT_FOUND":     "No quota is configured for the requested species and category.",
	"INVALID_RULE_SHAPE":      "The rule is not valid for the selected type.",
	"ALREADY_DRAWN":           "This lottery has already been drawn.",
	"REGISTRATION_CLOSED":     "Registration for this lottery is closed.",
	"DUPLICATE_PARTICIPATION": "You have already joined this lottery.",
	"UNAUTHORIZED":            "Authentication required.",
	"FORBIDDEN":               "You are not allowed to perform this operation.",
}
