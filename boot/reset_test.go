package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

func TestResetArbiter(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		requests []status.ResetKind
		kind     status.ResetKind
	}){
		{"none", nil, status.RESET_NONE},
		{"warm", []status.ResetKind{status.RESET_WARM}, status.RESET_WARM},
		{"warm_warm", []status.ResetKind{status.RESET_WARM, status.RESET_WARM}, status.RESET_WARM},
		{"cold", []status.ResetKind{status.RESET_COLD}, status.RESET_COLD},
		{"warm_cold", []status.ResetKind{status.RESET_WARM, status.RESET_COLD}, status.RESET_COLD},
		{"cold_warm", []status.ResetKind{status.RESET_COLD, status.RESET_WARM}, status.RESET_COLD},
		{"invalid", []status.ResetKind{status.ResetKind(9)}, status.RESET_COLD},
		{"none_request", []status.ResetKind{status.RESET_NONE}, status.RESET_COLD},
		{"warm_invalid_warm", []status.ResetKind{status.RESET_WARM, status.ResetKind(-3), status.RESET_WARM}, status.RESET_COLD},
	}

	for _, entry := range table {
		ra := &ResetArbiter{}
		for _, req := range entry.requests {
			ra.Request(req)
		}
		assert.Equal(entry.kind, ra.Kind(), entry.name)
		if entry.kind == status.RESET_NONE {
			assert.NoError(ra.Pending(), entry.name)
		} else {
			assert.Equal(status.ErrResetRequest(entry.kind), ra.Pending(), entry.name)
		}
	}
}

func TestResetArbiter_Permutations(t *testing.T) {
	assert := assert.New(t)

	kinds := []status.ResetKind{status.RESET_WARM, status.RESET_COLD, status.RESET_WARM, status.ResetKind(5)}

	// Every subset, in order and reversed.
	for mask := range 1 << len(kinds) {
		var requests []status.ResetKind
		for n, kind := range kinds {
			if mask&(1<<n) != 0 {
				requests = append(requests, kind)
			}
		}

		expect := status.RESET_NONE
		for _, kind := range requests {
			if kind == status.RESET_WARM && expect == status.RESET_NONE {
				expect = status.RESET_WARM
			} else if kind != status.RESET_WARM {
				expect = status.RESET_COLD
			}
		}

		forward := &ResetArbiter{}
		reverse := &ResetArbiter{}
		for n := range requests {
			forward.Request(requests[n])
			reverse.Request(requests[len(requests)-1-n])
		}
		assert.Equal(expect, forward.Kind(), "mask %b", mask)
		assert.Equal(expect, reverse.Kind(), "mask %b", mask)
	}
}
