package domain

import "strings"

// Address is a Mexican postal address as extracted from a document. Every
// field is optional; missing fields count as absent evidence.
type Address struct {
	Street         string `json:"street,omitempty"`
	ExteriorNumber string `json:"exterior_number,omitempty"`
	InteriorNumber string `json:"interior_number,omitempty"`
	Colonia        string `json:"colonia,omitempty"`
	Municipio      string `json:"municipio,omitempty"`
	Estado         string `json:"estado,omitempty"`
	CodigoPostal   string `json:"codigo_postal,omitempty"`
}

// IsZero reports whether no field carries data.
func (a *Address) IsZero() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Street+a.ExteriorNumber+a.InteriorNumber+a.Colonia+a.Municipio+a.Estado+a.CodigoPostal) == ""
}

// Clone returns a copy that shares no memory with a.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// String renders the address on one line for messages and traces.
func (a *Address) String() string {
	if a.IsZero() {
		return ""
	}
	street := strings.TrimSpace(strings.Join([]string{a.Street, a.ExteriorNumber}, " "))
	if a.InteriorNumber != "" {
		street += " int. " + a.InteriorNumber
	}
	parts := []string{street, a.Colonia, a.Municipio, a.Estado}
	if a.CodigoPostal != "" {
		parts = append(parts, "C.P. "+a.CodigoPostal)
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
