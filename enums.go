package jsql

import "strconv"

// ClientInfoStatus is the reason a client info property could not be set.
type ClientInfoStatus int

const (
	// ReasonUnknown: the property could not be set for an unknown reason.
	ReasonUnknown ClientInfoStatus = iota
	// ReasonUnknownProperty: the driver does not know the property.
	ReasonUnknownProperty
	// ReasonValueInvalid: the value is not valid for the property.
	ReasonValueInvalid
	// ReasonValueTruncated: the value is longer than the property allows.
	ReasonValueTruncated
)

func (s ClientInfoStatus) String() string {
	switch s {
	case ReasonUnknown:
		return "REASON_UNKNOWN"
	case ReasonUnknownProperty:
		return "REASON_UNKNOWN_PROPERTY"
	case ReasonValueInvalid:
		return "REASON_VALUE_INVALID"
	case ReasonValueTruncated:
		return "REASON_VALUE_TRUNCATED"
	default:
		return "ClientInfoStatus(" + strconv.Itoa(int(s)) + ")"
	}
}

// RowIDLifetime is how long a RowID stays valid.
type RowIDLifetime int

const (
	RowIDUnsupported RowIDLifetime = iota
	RowIDValidOther
	RowIDValidSession
	RowIDValidTransaction
	RowIDValidForever
)

func (l RowIDLifetime) String() string {
	switch l {
	case RowIDUnsupported:
		return "ROWID_UNSUPPORTED"
	case RowIDValidOther:
		return "ROWID_VALID_OTHER"
	case RowIDValidSession:
		return "ROWID_VALID_SESSION"
	case RowIDValidTransaction:
		return "ROWID_VALID_TRANSACTION"
	case RowIDValidForever:
		return "ROWID_VALID_FOREVER"
	default:
		return "RowIDLifetime(" + strconv.Itoa(int(l)) + ")"
	}
}

// PseudoColumnUsage tells where a pseudo column may appear in a query.
type PseudoColumnUsage int

const (
	SelectListOnly PseudoColumnUsage = iota
	WhereClauseOnly
	NoUsageRestrictions
	UsageUnknown
)

func (u PseudoColumnUsage) String() string {
	switch u {
	case SelectListOnly:
		return "SELECT_LIST_ONLY"
	case WhereClauseOnly:
		return "WHERE_CLAUSE_ONLY"
	case NoUsageRestrictions:
		return "NO_USAGE_RESTRICTIONS"
	case UsageUnknown:
		return "USAGE_UNKNOWN"
	default:
		return "PseudoColumnUsage(" + strconv.Itoa(int(u)) + ")"
	}
}
