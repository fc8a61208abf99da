package hive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpsertAppendsNewUser(t *testing.T) {
	now := time.Now()

	rs := ResponseList{}.Upsert("u1", true, now)
	rs = rs.Upsert("u2", false, now)

	assert.Len(t, rs, 2)
	assert.Equal(t, "u1", rs[0].UserID)
	assert.True(t, rs[0].Agrees)
	assert.False(t, rs[1].Agrees)
}

func TestUpsertOverwritesExistingUser(t *testing.T) {
	first := time.Now()
	later := first.Add(time.Hour)

	rs := ResponseList{}.Upsert("u1", true, first)
	rs = rs.Upsert("u1", false, later)

	assert.Len(t, rs, 1)
	assert.False(t, rs[0].Agrees)
	assert.Equal(t, later, rs[0].Time)
}

func TestByUser(t *testing.T) {
	rs := ResponseList{}.Upsert("u1", true, time.Now())

	r, ok := rs.ByUser("u1")
	assert.True(t, ok)
	assert.True(t, r.Agrees)

	_, ok = rs.ByUser("u2")
	assert.False(t, ok)
}

func TestValidateLinks(t *testing.T) {
	assert.NoError(t, ValidateLinks(nil))
	assert.NoError(t, ValidateLinks([]string{"https://example.com/a", "/relative/path"}))
	assert.Error(t, ValidateLinks([]string{""}))
	assert.Error(t, ValidateLinks([]string{"   "}))
}
