package formbuilder

import (
	"errors"
	"fmt"

	"github.com/a-h/templ"
	"github.com/pthm/formbuilder/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates a new state encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// StateFieldName is the name of the hidden field written by Form.StateField.
const StateFieldName = "_state"

// EncodeState returns the values of every named control, leaving out file
// uploads.
func (g *Group) EncodeState() map[string]any {
	values := g.Values()
	for name, v := range values {
		switch v.(type) {
		case *Upload, []*Upload:
			delete(values, name)
		}
	}
	return values
}

// DecodeState applies decoded values with SetValues. Lists come back from
// the codec as []any and are turned into []string first.
func (g *Group) DecodeState(data map[string]any) error {
	for name, v := range data {
		if list, ok := v.([]any); ok {
			strs := make([]string, 0, len(list))
			for _, s := range list {
				strs = append(strs, fmt.Sprint(s))
			}
			data[name] = strs
		}
	}
	g.SetValues(data)
	return nil
}

// StateField renders a hidden input carrying the encoded values of the
// form, signed or, when sensitive, encrypted.
func (f *Form) StateField(enc *Encoder, sensitive bool) (string, error) {
	state, err := enc.Encode(f, sensitive)
	if err != nil {
		return "", fmt.Errorf("encode form state: %w", err)
	}
	return `<input type="hidden" name="` + StateFieldName + `" value="` + templ.EscapeString(state) + `">`, nil
}

// RestoreState decodes state written by StateField and applies it to the
// form. Tampered or malformed state returns ErrSignatureInvalid,
// ErrDecryptFailed or ErrInvalidFormat.
func (f *Form) RestoreState(enc *Encoder, state string, sensitive bool) error {
	if err := enc.Decode(state, sensitive, f); err != nil {
		return wrapEncodingError(err)
	}
	return nil
}

// wrapEncodingError maps encoding package errors to formbuilder sentinels.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
