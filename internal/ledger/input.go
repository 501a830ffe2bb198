package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"poolledger/internal/domain"
)

// validatedContribution is a ContributionInput that passed every check.
type validatedContribution struct {
	PoolID   int64
	UserName string
	Phone    string
	Amount   int64
}

func validate(in domain.ContributionInput) (validatedContribution, error) {
	poolID, ok := parsePositiveInt(in.PoolID)
	if !ok {
		return validatedContribution{}, fmt.Errorf("%w: poolId", domain.ErrValidation)
	}
	userName := NormalizeName(in.UserName)
	if userName == "" {
		return validatedContribution{}, fmt.Errorf("%w: user_name", domain.ErrValidation)
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return validatedContribution{}, fmt.Errorf("%w: phone", domain.ErrValidation)
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return validatedContribution{}, err
	}
	return validatedContribution{PoolID: poolID, UserName: userName, Phone: phone, Amount: amount}, nil
}

// NormalizeName returns the contributor name in Unicode NFC with surrounding
// whitespace removed.
func NormalizeName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

// ParseAmount converts a JSON number or numeric string into a positive integer
// amount. Fractional values are rejected rather than truncated.
func ParseAmount(raw json.RawMessage) (int64, error) {
	amount, ok := parsePositiveInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: amount must be a positive integer", domain.ErrValidation)
	}
	return amount, nil
}

func parsePositiveInt(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, false
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return 0, false
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
