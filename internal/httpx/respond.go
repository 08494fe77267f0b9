package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

// FieldError is one entry of the details array of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// Fail renders err and aborts the chain. Domain errors keep their status and
// code; anything unexpected is logged and hidden behind a 500.
func Fail(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make([]FieldError, 0, len(ve))
		for _, fe := range ve {
			details = append(details, FieldError{Field: jsonName(fe), Message: describe(fe)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: "validation failed", Code: "ValidationError", Details: details})
		return
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: "invalid json", Code: "InvalidJSON"})
		return
	}
	var ne *strconv.NumError
	var pe *time.ParseError
	if errors.As(err, &ne) || errors.As(err, &pe) {
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Error: "invalid query parameter", Code: "InvalidQuery"})
		return
	}
	if e, ok := apperr.As(err); ok && e.Kind != apperr.KindInternal {
		c.AbortWithStatusJSON(apperr.HTTPStatus(e), envelope{Error: e.Message, Code: e.Code})
		return
	}
	rid, _ := c.Get("rid")
	log.Printf("[http] rid=%v %s %s error: %v", rid, c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Error: "internal server error", Code: "Internal"})
}

// UseJSONFieldNames makes validation details report json names instead of
// Go field names. Call once at startup.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = f.Tag.Get("form")
		}
		return name
	})
}

func jsonName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return lowerFirst(ns)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "numeric":
		return "must be numeric"
	}
	return "failed " + fe.Tag() + " validation"
}
