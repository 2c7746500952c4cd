package models

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Patron is the ILS account record. The gateway reads and writes only
// Account; every other field is passed through untouched.
type Patron struct {
	XMLName    xml.Name   `json:"-" xml:"patron"`
	Account    string     `json:"account,omitempty" xml:"account,omitempty"`
	Name       string     `json:"name,omitempty" xml:"name,omitempty"`
	Email      string     `json:"email,omitempty" xml:"email,omitempty"`
	Address    string     `json:"address,omitempty" xml:"address,omitempty"`
	Status     string     `json:"status,omitempty" xml:"status,omitempty"`
	Expires    string     `json:"expires,omitempty" xml:"expires,omitempty"`
	Type       string     `json:"type,omitempty" xml:"type,omitempty"`
	Blocks     []Block    `json:"blocks,omitempty" xml:"blocks>block,omitempty"`
	Attributes Attributes `json:"attributes,omitempty" xml:"attributes,omitempty"`

	// Extra holds JSON members the gateway does not model so they reach the
	// ILS and the client unchanged.
	Extra map[string]json.RawMessage `json:"-" xml:"-"`
	// ExtraXML is the XML counterpart of Extra: unmodelled child elements,
	// kept verbatim in document order.
	ExtraXML []XMLElement `json:"-" xml:",any"`
}

// XMLElement is one unmodelled XML element carried through as-is.
type XMLElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

// patronFields avoids recursion into Patron's own JSON methods.
type patronFields Patron

var patronKnownKeys = map[string]struct{}{
	"account": {}, "name": {}, "email": {}, "address": {}, "status": {},
	"expires": {}, "type": {}, "blocks": {}, "attributes": {},
}

// UnmarshalJSON decodes the modelled fields and keeps the rest in Extra.
func (p *Patron) UnmarshalJSON(data []byte) error {
	var fields patronFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range patronKnownKeys {
		delete(all, k)
	}
	if len(all) > 0 {
		fields.Extra = all
	} else {
		fields.Extra = nil
	}
	*p = Patron(fields)
	return nil
}

// MarshalJSON writes the modelled fields followed by Extra.
func (p Patron) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(patronFields(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(p.Extra)+len(patronKnownKeys))
	for k, v := range p.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Attributes carries backend-specific patron fields the gateway does not model.
type Attributes map[string]string

// MarshalXML writes attributes as <attribute name="k">v</attribute> in key order.
func (a Attributes) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el := xml.StartElement{
			Name: xml.Name{Local: "attribute"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: k}},
		}
		if err := e.EncodeElement(a[k], el); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// UnmarshalXML reads the form written by MarshalXML.
func (a *Attributes) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Items []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:",chardata"`
		} `xml:"attribute"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	if *a == nil {
		*a = make(Attributes, len(raw.Items))
	}
	for _, item := range raw.Items {
		(*a)[item.Name] = item.Value
	}
	return nil
}

// BlockReasonPendingActivation is the block key applied to every fresh signup.
const BlockReasonPendingActivation = "93"

// Block is a block placed on (or lifted from) a patron account.
// Date is held as dd.mm.yyyy once ingested.
type Block struct {
	XMLName     xml.Name `json:"-" xml:"block"`
	Key         string   `json:"key,omitempty" xml:"key,omitempty"`
	Description string   `json:"description,omitempty" xml:"description,omitempty"`
	Date        string   `json:"date,omitempty" xml:"date,omitempty"`
}

// ErrInvalidBlockDate is returned when a supplied block date is not yyyy-mm-dd.
var ErrInvalidBlockDate = errors.New("block date must be yyyy-mm-dd")

var isoDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// NormalizeBlockDate rewrites yyyy-mm-dd to dd.mm.yyyy. Any other shape fails.
func NormalizeBlockDate(date string) (string, error) {
	m := isoDate.FindStringSubmatch(date)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlockDate, date)
	}
	return m[3] + "." + m[2] + "." + m[1], nil
}

// NormalizeDate applies NormalizeBlockDate to a client-supplied block.
// An absent date stays absent.
func (b *Block) NormalizeDate() error {
	if b.Date == "" {
		return nil
	}
	normalized, err := NormalizeBlockDate(b.Date)
	if err != nil {
		return err
	}
	b.Date = normalized
	return nil
}

// Fee is a charge raised against a patron account.
type Fee struct {
	XMLName xml.Name `json:"-" xml:"fee"`
	FeeID   string   `json:"feeid,omitempty" xml:"feeid,omitempty"`
	Amount  string   `json:"amount,omitempty" xml:"amount,omitempty"`
	Date    string   `json:"date,omitempty" xml:"date,omitempty"`
	About   string   `json:"about,omitempty" xml:"about,omitempty"`
	Item    string   `json:"item,omitempty" xml:"item,omitempty"`
	Edition string   `json:"edition,omitempty" xml:"edition,omitempty"`
	FeeType string   `json:"feetype,omitempty" xml:"feetype,omitempty"`
}

// LoginResponse is the session cookie payload written by the login front end.
// The gateway only reads it.
type LoginResponse struct {
	Patron      string `json:"patron"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	Scope       string `json:"scope,omitempty"`
}
