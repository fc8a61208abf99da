package consensus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hivemind/domain/hive"
)

func response(userID string, agrees bool) hive.Response {
	return hive.Response{UserID: userID, Agrees: agrees, Time: time.Now()}
}

func TestComputeNoResponses(t *testing.T) {
	agg := Compute(nil, "u1", 10)

	assert.Equal(t, 0, agg.MyResponse)
	assert.Equal(t, 0.0, agg.CommonResponse)
	assert.Equal(t, 0.0, agg.Penetration)
}

func TestComputeSingleAgree(t *testing.T) {
	responses := hive.ResponseList{response("u1", true)}

	agg := Compute(responses, "u1", 4)

	assert.Equal(t, 1, agg.MyResponse)
	assert.Equal(t, 1.0, agg.CommonResponse)
	assert.Equal(t, 0.25, agg.Penetration)
}

func TestComputeMixedResponses(t *testing.T) {
	responses := hive.ResponseList{
		response("u1", true),
		response("u2", true),
		response("u3", false),
	}

	agg := Compute(responses, "u3", 6)

	assert.Equal(t, -1, agg.MyResponse)
	assert.InDelta(t, 1.0/3.0, agg.CommonResponse, 1e-9)
	assert.Equal(t, 0.5, agg.Penetration)
}

func TestComputeViewerWithoutResponse(t *testing.T) {
	responses := hive.ResponseList{response("u1", false)}

	agg := Compute(responses, "someone-else", 2)

	assert.Equal(t, 0, agg.MyResponse)
	assert.Equal(t, -1.0, agg.CommonResponse)
}

func TestComputeZeroParticipationGuardsDivision(t *testing.T) {
	responses := hive.ResponseList{response("u1", true)}

	agg := Compute(responses, "u1", 0)

	assert.Equal(t, 0.0, agg.Penetration)
}
