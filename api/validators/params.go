package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectIDParam reads a chi URL parameter as a Mongo ObjectID.
func ParseObjectIDParam(r *http.Request, key string) (primitive.ObjectID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.New(pkgerrors.CodeValidation, "invalid id parameter").
			WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// RequireQuery reads a query parameter that must be present and non-blank.
func RequireQuery(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "missing query parameter").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryInt reads an optional numeric query parameter within a range.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}
