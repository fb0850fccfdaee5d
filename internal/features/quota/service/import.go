package service

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"hunting-reserve-backend/internal/common/errors"
	"hunting-reserve-backend/internal/domain/wildlife"
	"hunting-reserve-backend/internal/features/quota/models"
)

const maxSpeciesDistance = 2

// ImportCSV reads "species,category,total[,notes]" rows and replaces the
// quotas of every species it mentions in one transaction. Every row is
// validated before anything is written. A header row is skipped when its
// third column is not a number.
func (s *quotaService) ImportCSV(ctx context.Context, reserveID, season string, r io.Reader) (*models.ImportResult, error) {
	if strings.TrimSpace(season) == "" {
		return nil, errors.NewValidationError("season", "is required")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &models.ImportResult{Season: season, Species: map[string]int{}, Corrections: []models.Correction{}}
	bySpecies := map[string][]models.CategoryQuota{}

	for line := 1; ; line++ {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, fmt.Sprintf("Malformed CSV at line %d", line))
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 3 {
			return nil, errors.NewValidationError("csv", fmt.Sprintf("line %d: expected species,category,total", line))
		}

		total, convErr := strconv.Atoi(strings.TrimSpace(record[2]))
		if convErr != nil {
			if line == 1 {
				continue
			}
			return nil, errors.NewValidationError("total", fmt.Sprintf("line %d: %q is not a number", line, record[2]))
		}
		if total < 0 {
			return nil, errors.NewValidationError("total", fmt.Sprintf("line %d: must not be negative", line))
		}

		input := record[0]
		species, ok := ResolveSpecies(input)
		if !ok {
			return nil, errors.NewValidationError("species", fmt.Sprintf("line %d: unknown species %q", line, input))
		}
		if string(species) != strings.TrimSpace(input) {
			result.Corrections = append(result.Corrections, models.Correction{Line: line, Input: input, Resolved: string(species)})
		}

		cq := models.CategoryQuota{Category: record[1], TotalQuota: total}
		if len(record) > 3 {
			cq.Notes = strings.TrimSpace(record[3])
		}
		bySpecies[string(species)] = append(bySpecies[string(species)], cq)
		result.Rows++
	}

	if result.Rows == 0 {
		return nil, errors.NewValidationError("csv", "no quota rows found")
	}

	names := make([]string, 0, len(bySpecies))
	for name := range bySpecies {
		names = append(names, name)
	}
	sort.Strings(names)

	rowsBySpecies := make(map[string][]*models.Quota, len(names))
	for _, name := range names {
		rows, err := replacementRows(&models.ReplaceRequest{Species: name, Season: season, Quotas: bySpecies[name]})
		if err != nil {
			return nil, err
		}
		rowsBySpecies[name] = rows
	}

	tx, err := s.transactor.BeginTx(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		saved, err := s.repo.BulkReplaceTx(ctx, tx, reserveID, "", name, rowsBySpecies[name])
		if err != nil {
			return nil, replaceError(err)
		}
		result.Species[name] = len(saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewDatabaseError("commit quota import", err)
	}
	s.InvalidateCache(ctx, reserveID)

	s.log.Info().Str("reserve_id", reserveID).Int("rows", result.Rows).
		Int("corrections", len(result.Corrections)).Msg("Quota CSV imported")
	return result, nil
}

// ResolveSpecies maps a hand-typed species name onto the catalog: exact code,
// Italian common name, or the closest of either within a small edit distance.
func ResolveSpecies(input string) (wildlife.Species, bool) {
	name := strings.ToLower(strings.TrimSpace(input))
	name = strings.ReplaceAll(name, " ", "_")

	if wildlife.IsSpecies(name) {
		return wildlife.Species(name), true
	}
	if sp, ok := wildlife.Aliases[name]; ok {
		return sp, true
	}

	best, bestDist := wildlife.Species(""), maxSpeciesDistance+1
	consider := func(candidate string, sp wildlife.Species) {
		if d := levenshtein.ComputeDistance(name, candidate); d < bestDist {
			best, bestDist = sp, d
		}
	}
	for _, sp := range wildlife.All() {
		consider(string(sp), sp)
	}
	aliases := make([]string, 0, len(wildlife.Aliases))
	for alias := range wildlife.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		consider(alias, wildlife.Aliases[alias])
	}

	if bestDist > maxSpeciesDistance {
		return "", false
	}
	return best, true
}
