package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
)

// payload is a request body read either as JSON or as a form. It tells a
// field that was sent empty apart from one that was not sent at all.
type payload struct {
	fields map[string]any
	form   *multipart.Form
}

func readPayload(ctx *gin.Context) (*payload, error) {
	p := &payload{fields: map[string]any{}}

	contentType := ctx.ContentType()

	switch {
	case strings.HasPrefix(contentType, gin.MIMEMultipartPOSTForm):
		form, err := ctx.MultipartForm()
		if err != nil {
			return nil, &models.ValidationError{Problems: []string{"invalid multipart form"}}
		}
		p.form = form
		for k, v := range form.Value {
			p.fields[k] = formValue(v)
		}
	case contentType == gin.MIMEPOSTForm:
		if err := ctx.Request.ParseForm(); err != nil {
			return nil, &models.ValidationError{Problems: []string{"invalid form body"}}
		}
		for k, v := range ctx.Request.PostForm {
			p.fields[k] = formValue(v)
		}
	default:
		if ctx.Request.Body == nil {
			return p, nil
		}
		err := json.NewDecoder(ctx.Request.Body).Decode(&p.fields)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &models.ValidationError{Problems: []string{"invalid JSON body"}}
		}
		if p.fields == nil {
			p.fields = map[string]any{}
		}
	}

	return p, nil
}

func formValue(v []string) any {
	if len(v) == 1 {
		return v[0]
	}
	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s
	}
	return out
}

func (p *payload) has(key string) bool {
	_, ok := p.fields[key]
	return ok
}

// str returns the field as text. Numbers and booleans are formatted, null is "".
func (p *payload) str(key string) (string, bool) {
	v, ok := p.fields[key]
	if !ok {
		return "", false
	}

	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s, true
			}
		}
		return "", true
	default:
		return fmt.Sprint(t), true
	}
}

// setStr overwrites dst when key was sent.
func (p *payload) setStr(dst *string, key string) {
	if v, ok := p.str(key); ok {
		*dst = v
	}
}

func (p *payload) boolean(key string) (value, ok bool, err error) {
	v, ok := p.fields[key]
	if !ok {
		return false, false, nil
	}

	switch t := v.(type) {
	case bool:
		return t, true, nil
	case float64:
		return t != 0, true, nil
	case nil:
		return false, true, nil
	}

	s, _ := p.str(key)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "off", "no":
		return false, true, nil
	case "true", "1", "on", "yes":
		return true, true, nil
	}

	return false, true, &models.ValidationError{Problems: []string{key + " must be a boolean"}}
}

func (p *payload) setBool(dst *bool, key string) error {
	v, ok, err := p.boolean(key)
	if err != nil {
		return err
	}
	if ok {
		*dst = v
	}
	return nil
}

func (p *payload) setInt(dst *int, key string) error {
	v, ok := p.fields[key]
	if !ok || v == nil {
		return nil
	}

	if f, isNum := v.(float64); isNum {
		*dst = int(f)
		return nil
	}

	s, _ := p.str(key)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return &models.ValidationError{Problems: []string{key + " must be a number"}}
	}
	*dst = n
	return nil
}

// list reads a string list sent as a JSON array, a JSON encoded array in a
// single form field, or repeated form fields. A malformed JSON array yields an
// empty list and a lone plain value a list of one. It returns nil when key is
// absent.
func (p *payload) list(key string) *[]string {
	v, ok := p.fields[key]
	if !ok {
		return nil
	}

	out := []string{}

	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		s := strings.TrimSpace(t)
		switch {
		case s == "":
		case strings.HasPrefix(s, "["):
			var decoded []string
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				out = decoded
			}
		default:
			out = append(out, s)
		}
	}

	return &out
}

// rest returns every field not named in skip. Form values holding a JSON
// object or array are decoded.
func (p *payload) rest(skip map[string]bool) map[string]any {
	out := map[string]any{}

	for k, v := range p.fields {
		if skip[k] {
			continue
		}

		if s, ok := v.(string); ok && p.form != nil {
			trimmed := strings.TrimSpace(s)
			if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
				var decoded any
				if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
					v = decoded
				}
			}
		}

		out[k] = v
	}

	return out
}

// files stages the parts submitted under policy.Field.
func (h *Handler) files(p *payload, policy upload.Policy) ([]upload.StagedFile, error) {
	if p.form == nil {
		return nil, nil
	}
	return h.intake.Receive(p.form, policy)
}
