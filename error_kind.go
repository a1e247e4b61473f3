package jsql

import (
	"strconv"
	"strings"
)

// Kind classifies an *Error. Kinds form a tree rooted at KindException;
// errors.Is(err, k) reports whether err's kind is k or descends from k.
type Kind uint8

const (
	KindException Kind = iota
	KindWarning
	KindDataTruncation
	KindBatchUpdate
	KindClientInfo
	KindRecoverable
	KindNonTransient
	KindDataException
	KindFeatureNotSupported
	KindIntegrityConstraintViolation
	KindInvalidAuthorization
	KindNonTransientConnection
	KindSyntaxError
	KindTransient
	KindTimeout
	KindTransactionRollback
	KindTransientConnection

	numKinds
)

var kindParents = [numKinds]Kind{
	KindException:                    KindException,
	KindWarning:                      KindException,
	KindDataTruncation:               KindWarning,
	KindBatchUpdate:                  KindException,
	KindClientInfo:                   KindException,
	KindRecoverable:                  KindException,
	KindNonTransient:                 KindException,
	KindDataException:                KindNonTransient,
	KindFeatureNotSupported:          KindNonTransient,
	KindIntegrityConstraintViolation: KindNonTransient,
	KindInvalidAuthorization:         KindNonTransient,
	KindNonTransientConnection:       KindNonTransient,
	KindSyntaxError:                  KindNonTransient,
	KindTransient:                    KindException,
	KindTimeout:                      KindTransient,
	KindTransactionRollback:          KindTransient,
	KindTransientConnection:          KindTransient,
}

var kindNames = [numKinds]string{
	KindException:                    "sql exception",
	KindWarning:                      "sql warning",
	KindDataTruncation:               "data truncation",
	KindBatchUpdate:                  "batch update",
	KindClientInfo:                   "client info",
	KindRecoverable:                  "recoverable",
	KindNonTransient:                 "non-transient",
	KindDataException:                "data exception",
	KindFeatureNotSupported:          "feature not supported",
	KindIntegrityConstraintViolation: "integrity constraint violation",
	KindInvalidAuthorization:         "invalid authorization specification",
	KindNonTransientConnection:       "non-transient connection",
	KindSyntaxError:                  "syntax error or access rule violation",
	KindTransient:                    "transient",
	KindTimeout:                      "timeout",
	KindTransactionRollback:          "transaction rollback",
	KindTransientConnection:          "transient connection",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return "sql: " + k.String()
}

// Parent returns the kind k specialises. The root is its own parent.
func (k Kind) Parent() Kind {
	if k < numKinds {
		return kindParents[k]
	}
	return KindException
}

// IsA reports whether k is ancestor itself or descends from it.
func (k Kind) IsA(ancestor Kind) bool {
	for {
		if k == ancestor {
			return true
		}
		if k == KindException || k >= numKinds {
			return false
		}
		k = kindParents[k]
	}
}

// KindForSQLState maps a SQLState to the most specific kind its class code
// implies. Unknown or malformed states map to KindException.
func KindForSQLState(state string) Kind {
	if len(state) < 2 {
		return KindException
	}
	switch strings.ToUpper(state[:2]) {
	case "01":
		if strings.ToUpper(state) == "01004" {
			return KindDataTruncation
		}
		return KindWarning
	case "08":
		return KindNonTransientConnection
	case "0A":
		return KindFeatureNotSupported
	case "22":
		if state == "22001" {
			return KindDataTruncation
		}
		return KindDataException
	case "23":
		return KindIntegrityConstraintViolation
	case "28":
		return KindInvalidAuthorization
	case "40":
		return KindTransactionRollback
	case "42":
		return KindSyntaxError
	case "HY":
		if strings.ToUpper(state) == "HYT00" || strings.ToUpper(state) == "HYT01" {
			return KindTimeout
		}
	}
	return KindException
}
