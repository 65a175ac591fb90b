package model

import (
	"strconv"
	"strings"

	"github.com/hdlutil/regmap/pkg/document"
	"github.com/hdlutil/regmap/pkg/rmerr"
)

// OptUint is an unsigned attribute that may be unknown until defaulted,
// inherited, or derived from the finished child layout.
type OptUint struct {
	Val   uint64
	Known bool
}

// KnownUint returns a known OptUint.
func KnownUint(v uint64) OptUint { return OptUint{Val: v, Known: true} }

// Or returns the value, or def when unknown.
func (o OptUint) Or(def uint64) uint64 {
	if o.Known {
		return o.Val
	}
	return def
}

// OptBool is a tri-state boolean attribute. Access flags stay unknown until
// given, inherited, or resolved by the after-children AND rule.
type OptBool struct {
	Val   bool
	Known bool
}

// KnownBool returns a known OptBool.
func KnownBool(v bool) OptBool { return OptBool{Val: v, Known: true} }

// Format is the presentation format of a register or field value.
type Format int

const (
	FormatBits Format = iota
	FormatSigned
	FormatUnsigned
)

func (f Format) String() string {
	switch f {
	case FormatSigned:
		return "signed"
	case FormatUnsigned:
		return "unsigned"
	}
	return "bits"
}

// attrScan reads declared attributes off a tag with typed conversion,
// tracking which names were consumed so anything left over can be rejected
// as unsupported. The first failure sticks; later reads still run but the
// scan reports only the original error.
type attrScan struct {
	tag  *document.Tag
	used map[string]bool
	err  error
}

func scanAttrs(tag *document.Tag) *attrScan {
	return &attrScan{tag: tag, used: make(map[string]bool, len(tag.Attrs))}
}

func (s *attrScan) raw(name string) (string, bool) {
	v, ok := s.tag.Attrs[name]
	if ok {
		s.used[name] = true
	}
	return v, ok
}

func (s *attrScan) fail(err *rmerr.Error) {
	if s.err == nil {
		s.err = err
	}
}

// String reads an optional string attribute.
func (s *attrScan) String(name string) (string, bool) {
	return s.raw(name)
}

// RequireString reads a required string attribute.
func (s *attrScan) RequireString(name string) string {
	v, ok := s.raw(name)
	if !ok {
		s.fail(rmerr.New(rmerr.CodeAttrMissing, "%s: missing required attribute %q", s.tag.Name, name))
	}
	return v
}

// Uint reads an optional unsigned attribute. Decimal and 0x forms accepted.
func (s *attrScan) Uint(name string) OptUint {
	v, ok := s.raw(name)
	if !ok {
		return OptUint{}
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		s.fail(rmerr.New(rmerr.CodeAttrConversion, "%s: cannot convert attribute %s=%q to an integer", s.tag.Name, name, v))
		return OptUint{}
	}
	return KnownUint(n)
}

// RequireUint reads a required unsigned attribute.
func (s *attrScan) RequireUint(name string) uint64 {
	o := s.Uint(name)
	if !o.Known && s.err == nil {
		s.fail(rmerr.New(rmerr.CodeAttrMissing, "%s: missing required attribute %q", s.tag.Name, name))
	}
	return o.Val
}

// Bool reads an optional boolean attribute: yes/no, true/false, 1/0,
// case-insensitive.
func (s *attrScan) Bool(name string) OptBool {
	v, ok := s.raw(name)
	if !ok {
		return OptBool{}
	}
	switch strings.ToLower(v) {
	case "yes", "true", "1":
		return KnownBool(true)
	case "no", "false", "0":
		return KnownBool(false)
	}
	s.fail(rmerr.New(rmerr.CodeAttrConversion, "%s: cannot convert attribute %s=%q to a boolean", s.tag.Name, name, v))
	return OptBool{}
}

// Format reads an optional format attribute, defaulting to bits.
func (s *attrScan) Format(name string) Format {
	v, ok := s.raw(name)
	if !ok {
		return FormatBits
	}
	switch v {
	case "bits":
		return FormatBits
	case "signed":
		return FormatSigned
	case "unsigned":
		return FormatUnsigned
	}
	s.fail(rmerr.New(rmerr.CodeAttrBadValue, "%s: illegal format %q, must be bits, signed, or unsigned", s.tag.Name, v))
	return FormatBits
}

// Finish returns the scan's error: the first conversion or missing-attribute
// failure, or an unsupported-attribute error for any name never consumed.
func (s *attrScan) Finish() error {
	if s.err != nil {
		return s.err
	}
	for name := range s.tag.Attrs {
		if !s.used[name] {
			return rmerr.New(rmerr.CodeAttrUnsupported, "%s: unsupported attribute %q", s.tag.Name, name)
		}
	}
	return nil
}

// checkAccess rejects elements declaring both access restrictions at once.
func checkAccess(tagName string, ro, wo OptBool) error {
	if ro.Known && ro.Val && wo.Known && wo.Val {
		return rmerr.New(rmerr.CodeAttrConflict, "%s: cannot have both readOnly and writeOnly set", tagName)
	}
	return nil
}

// normalizeText collapses internal whitespace runs to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
