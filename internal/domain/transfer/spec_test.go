package transfer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestQuery_BuildSpec(t *testing.T) {
	me, other, third := uuid.New(), uuid.New(), uuid.New()
	completed := StatusCompleted

	incomingPending := &Request{FromBranchID: other, ToBranchID: me, Status: StatusPending}
	outgoingDone := &Request{FromBranchID: me, ToBranchID: other, Status: StatusCompleted}
	unrelated := &Request{FromBranchID: other, ToBranchID: third, Status: StatusPending}

	tests := []struct {
		name     string
		query    Query
		unscoped bool
		want     []bool
	}{
		{"all", Query{Direction: DirectionAll}, false, []bool{true, true, false}},
		{"incoming", Query{Direction: DirectionIncoming}, false, []bool{true, false, false}},
		{"outgoing", Query{Direction: DirectionOutgoing}, false, []bool{false, true, false}},
		{"status", Query{Direction: DirectionAll, Status: &completed}, false, []bool{false, true, false}},
		{"status not", Query{Direction: DirectionAll, StatusNot: &completed}, false, []bool{true, false, false}},
		{"admin sees all", Query{Direction: DirectionAll}, true, []bool{true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.query.BuildSpec(me, tt.unscoped)
			got := []bool{
				spec.Matches(incomingPending),
				spec.Matches(outgoingDone),
				spec.Matches(unrelated),
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpec_EmptyCombinators(t *testing.T) {
	r := &Request{Status: StatusPending}
	assert.True(t, And{}.Matches(r))
	assert.False(t, Or{}.Matches(r))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("")
	assert.True(t, ok)
	assert.Equal(t, DirectionAll, d)

	d, ok = ParseDirection("INCOMING")
	assert.True(t, ok)
	assert.Equal(t, DirectionIncoming, d)

	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
