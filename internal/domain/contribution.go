package domain

import (
	"encoding/json"
	"time"
)

// Contribution represents one contributor's payment recorded against a pool.
type Contribution struct {
	ID        int64
	PoolID    int64
	UserName  string
	Phone     string
	Amount    int64
	CreatedAt time.Time
}

// ContributionInput is the loosely typed payment request as received from
// callers. PoolID and Amount may be JSON numbers or numeric strings.
type ContributionInput struct {
	PoolID   json.RawMessage
	UserName string
	Phone    string
	Amount   json.RawMessage
}
