package models

// Format is the serialization negotiated for a response (and for POST bodies).
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatHTML Format = "html"
)

// Renderable reports whether the gateway can produce a body in this format.
// Anything other than JSON and XML is rejected before backends are touched.
func (f Format) Renderable() bool {
	return f == FormatJSON || f == FormatXML
}

// ContentType returns the media type written for this format.
func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml;charset=UTF-8"
	}
	return "application/json;charset=UTF-8"
}
