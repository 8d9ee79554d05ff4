package domain

import (
	"fmt"
)

// Kind is the closed set of user kinds.
type Kind int

const (
	KindCitizen Kind = iota
	KindAssociationMember
	KindMunicipalityMember
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindCitizen, KindAssociationMember, KindMunicipalityMember}

func (k Kind) String() string {
	switch k {
	case KindCitizen:
		return "cittadino"
	case KindAssociationMember:
		return "associazione"
	case KindMunicipalityMember:
		return "comune"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown user kind %q", ErrValidation, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed

	return nil
}
