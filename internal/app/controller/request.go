package controller

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

const maxBodyBytes = 1 << 20

// ColorRequest is the JSON shape of a selected colour.
type ColorRequest struct {
	Name    string `json:"name" binding:"required,max=50"`
	HexCode string `json:"hexCode" binding:"omitempty,max=9"`
}

func (r *ColorRequest) toModel() *model.Color {
	if r == nil {
		return nil
	}
	return &model.Color{Name: r.Name, HexCode: r.HexCode}
}

// bindStrictJSON decodes the body rejecting unknown fields, then runs the
// binding tags. An empty body decodes as {} when allowEmpty is set.
func bindStrictJSON(c *gin.Context, obj interface{}, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		if !allowEmpty {
			return stderrors.New("request body is required")
		}
		body = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if dec.More() {
		return stderrors.New("request body must contain a single JSON object")
	}

	return binding.Validator.ValidateStruct(obj)
}

// respondBindError writes a 400 listing the failing fields when the error
// came from the validator.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Namespace())] = fe.Tag()
		}
		errors.RespondWithValidationError(c, "", fields)
		return
	}
	errors.RespondWithValidationError(c, err.Error(), nil)
}

// jsonFieldName turns "AddItemRequest.SelectedColor.Name" into "selectedColor.name".
func jsonFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// requireUserID reads the resolved user id. Routes without ResolveUser
// never reach a handler that calls this.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Missing resolved user in context", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		errors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}
