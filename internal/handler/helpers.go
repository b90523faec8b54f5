package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
	"github.com/Lazvegas61/MyCafe-sql/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apiErr := apierror.Validation("invalid JSON: " + err.Error())
		c.JSON(apiErr.Status, apiErr)
		return false
	}
	if err := validate.Struct(req); err != nil {
		var parts []string
		for _, fe := range err.(validator.ValidationErrors) {
			parts = append(parts, fe.Field()+": "+fe.Tag())
		}
		apiErr := apierror.Validation("validation failed: " + strings.Join(parts, ", "))
		c.JSON(apiErr.Status, apiErr)
		return false
	}
	return true
}

// respondError maps a service error onto the apierror envelope. Anything that
// is not a typed *apierror.Error is treated as an internal failure.
func respondError(c *gin.Context, err error) {
	if apiErr, ok := apierror.As(err); ok {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	dbErr := apierror.Database()
	_ = c.Error(err)
	c.JSON(dbErr.Status, dbErr)
}

// pathUUID parses a :param path segment as a UUID, writing the 400 itself.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		apiErr := apierror.Validation(name + " is not a valid uuid")
		c.JSON(apiErr.Status, apiErr)
		return uuid.Nil, false
	}
	return id, true
}

// userID extracts the authenticated user's id from the JWT claims.
func userID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, _ := uuid.Parse(claims.UserID)
	return id
}

func created(c *gin.Context, body interface{}) { c.JSON(http.StatusCreated, body) }
func ok(c *gin.Context, body interface{})      { c.JSON(http.StatusOK, body) }

func errInvalidQueryUUID(name string) *apierror.Error {
	return apierror.Validation(name + " query parameter is invalid")
}
