// Package event turns human readable event signatures into the opaque descriptors stored with
// each progress record, and turns descriptors back into go-ethereum ABI events.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	eventNameRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9_]*$`)
	paramNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	bytesNRe    = regexp.MustCompile(`^bytes([1-9]|[12][0-9]|3[0-2])$`)
	intNRe      = regexp.MustCompile(`^u?int(8|16|24|32|40|48|56|64|72|80|88|96|104|112|120|128|136|144|152|160|168|176|184|192|200|208|216|224|232|240|248|256)?$`) //nolint:lll
	fixedArrRe  = regexp.MustCompile(`\[\d+\]$`)

	ErrInvalidSignature  = errors.New("invalid event signature")
	ErrInvalidDescriptor = errors.New("invalid event descriptor")
)

// Param is one event input.
type Param struct {
	Name    string
	Type    string
	Indexed bool
}

// Signature is a parsed event signature such as
// "Transfer(address indexed from, address indexed to, uint256 value)".
type Signature struct {
	Name   string
	Params []Param
}

// Parse accepts the canonical form "Transfer(address,address,uint256)" as well as
// forms with parameter names and indexed markers. Unnamed parameters become argN.
func Parse(sig string) (*Signature, error) {
	sig = strings.TrimSpace(sig)

	open := strings.Index(sig, "(")
	if open == -1 || !strings.HasSuffix(sig, ")") {
		return nil, fmt.Errorf("%w %q: expected Name(params)", ErrInvalidSignature, sig)
	}

	name := strings.TrimSpace(sig[:open])
	if !eventNameRe.MatchString(name) {
		return nil, fmt.Errorf("%w %q: bad event name %q", ErrInvalidSignature, sig, name)
	}

	body := strings.TrimSpace(sig[open+1 : len(sig)-1])
	if strings.ContainsAny(body, "()") {
		return nil, fmt.Errorf("%w %q: tuple parameters are not supported", ErrInvalidSignature, sig)
	}

	s := &Signature{Name: name}
	if body == "" {
		return s, nil
	}

	seen := make(map[string]struct{})
	for i, raw := range strings.Split(body, ",") {
		p, err := parseParam(strings.Fields(raw), i)
		if err != nil {
			return nil, fmt.Errorf("%w %q: parameter %d: %w", ErrInvalidSignature, sig, i, err)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w %q: duplicate parameter name %s", ErrInvalidSignature, sig, p.Name)
		}
		seen[p.Name] = struct{}{}
		s.Params = append(s.Params, p)
	}

	return s, nil
}

func parseParam(parts []string, index int) (Param, error) {
	if len(parts) == 0 {
		return Param{}, errors.New("empty parameter")
	}

	p := Param{Type: parts[0], Name: fmt.Sprintf("arg%d", index)}
	if !isValidType(p.Type) {
		return Param{}, fmt.Errorf("unsupported type %s", p.Type)
	}

	rest := parts[1:]
	if len(rest) > 0 && rest[0] == "indexed" {
		p.Indexed = true
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
	case 1:
		if !paramNameRe.MatchString(rest[0]) {
			return Param{}, fmt.Errorf("bad parameter name %s", rest[0])
		}
		p.Name = rest[0]
	default:
		return Param{}, fmt.Errorf("unexpected tokens %v", rest)
	}

	return p, nil
}

func isValidType(typ string) bool {
	switch {
	case strings.HasSuffix(typ, "[]"):
		return isValidType(strings.TrimSuffix(typ, "[]"))
	case fixedArrRe.MatchString(typ):
		return isValidType(fixedArrRe.ReplaceAllString(typ, ""))
	case typ == "address", typ == "bool", typ == "string", typ == "bytes":
		return true
	default:
		return bytesNRe.MatchString(typ) || intNRe.MatchString(typ)
	}
}

// Canonical returns the signature without names, e.g. "Transfer(address,address,uint256)".
func (s *Signature) Canonical() string {
	types := make([]string, len(s.Params))
	for i, p := range s.Params {
		types[i] = p.Type
	}
	return s.Name + "(" + strings.Join(types, ",") + ")"
}

// Topic0 is the keccak256 hash of the canonical signature.
func (s *Signature) Topic0() common.Hash {
	return crypto.Keccak256Hash([]byte(s.Canonical()))
}

type abiInput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed"`
}

type abiEntry struct {
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Inputs    []abiInput `json:"inputs"`
	Anonymous bool       `json:"anonymous"`
}

// Descriptor renders the signature as a one-entry ABI JSON array.
func (s *Signature) Descriptor() ([]byte, error) {
	inputs := make([]abiInput, len(s.Params))
	for i, p := range s.Params {
		inputs[i] = abiInput{Name: p.Name, Type: p.Type, Indexed: p.Indexed}
	}

	return json.Marshal([]abiEntry{{Type: "event", Name: s.Name, Inputs: inputs}})
}

// FromDescriptor parses a descriptor produced by Signature.Descriptor, or any ABI JSON that
// contains exactly one event.
func FromDescriptor(descriptor []byte) (abi.Event, error) {
	parsed, err := abi.JSON(bytes.NewReader(descriptor))
	if err != nil {
		return abi.Event{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	if len(parsed.Events) != 1 {
		return abi.Event{}, fmt.Errorf("%w: expected exactly one event, found %d",
			ErrInvalidDescriptor, len(parsed.Events))
	}

	for _, ev := range parsed.Events {
		return ev, nil
	}

	return abi.Event{}, ErrInvalidDescriptor
}

// DescriptorFor parses sig and returns its name and descriptor in one step.
func DescriptorFor(sig string) (string, []byte, error) {
	s, err := Parse(sig)
	if err != nil {
		return "", nil, err
	}

	desc, err := s.Descriptor()
	if err != nil {
		return "", nil, err
	}

	return s.Name, desc, nil
}
