package middleware

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"hunting-reserve-backend/internal/common/errors"
)

// ParamInt64 parses a positive integer path parameter.
func ParamInt64(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// BindJSON binds the body and turns binding failures into a validation error
// naming the first offending field.
func BindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return bindingError(err)
	}
	return nil
}

func BindQuery(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindQuery(dest); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fe.Field(), "failed on '"+fe.Tag()+"'")
	}
	return errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body")
}

// MustAuth returns the caller or an unauthorized error.
func MustAuth(c *gin.Context) (AuthContext, error) {
	auth, ok := GetAuth(c)
	if !ok {
		return AuthContext{}, errors.NewUnauthorizedError("authentication required")
	}
	return auth, nil
}

// CheckReserve rejects callers outside reserveID.
func CheckReserve(c *gin.Context, reserveID string) error {
	auth, err := MustAuth(c)
	if err != nil {
		return err
	}
	if !auth.CanAccessReserve(reserveID) {
		return errors.NewForbiddenError("reserve belongs to another tenant")
	}
	return nil
}
