// Package controllers holds the HTTP layer. Controllers parse the request,
// call one service method, and map its error to the right status code; they
// never touch the database or the media host directly.
package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brianmacetas/admin-api/app/services"
	"github.com/brianmacetas/admin-api/pkg/ctx"
	"github.com/brianmacetas/admin-api/pkg/media"
)

// fail writes the error with the status its class maps to. notFoundMsg
// replaces the generic wording on 400s so each endpoint keeps its own
// user-facing message.
func fail(c *ctx.Context, err error, badRequestMsg, serverMsg string) {
	status := services.HTTPStatus(err)
	if status == 400 {
		c.Error(status, badRequestMsg)
		return
	}
	c.Error(status, serverMsg)
}

// uintParam parses a numeric path parameter.
func uintParam(c *ctx.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.Error(400, fmt.Sprintf("Parámetro %s inválido", name))
		return 0, false
	}
	return uint(id), true
}

// formFiles loads every multipart file under field into memory.
func formFiles(c *ctx.Context, field string) ([]media.File, error) {
	headers, err := c.FormFiles(field)
	if err != nil {
		return nil, err
	}

	files := make([]media.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", h.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", h.Filename, err)
		}
		files = append(files, media.File{Name: h.Filename, Content: content})
	}
	return files, nil
}

// parseIDList accepts either a JSON array ("[1,2]") or a comma-separated
// list ("1,2"); the panel has sent both over time.
func parseIDList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var ids []uint
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, err
		}
		return ids, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}
