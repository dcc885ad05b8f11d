package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestConfigError(t *testing.T) {
	t.Run("with component", func(t *testing.T) {
		err := pkgerrors.NewConfigError("cycle", "stipend table missing", nil)
		assert.Equal(t, "configuration error in cycle: stipend table missing", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrConfig))
	})

	t.Run("without component", func(t *testing.T) {
		err := &pkgerrors.ConfigError{Message: "empty baseline"}
		assert.Equal(t, "configuration error: empty baseline", err.Error())
		assert.True(t, pkgerrors.IsConfig(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("json: cannot unmarshal")
		err := pkgerrors.NewConfigError("cycle", "bad file", base)
		assert.True(t, errors.Is(err, base))
	})
}

func TestBandingError(t *testing.T) {
	t.Run("district only", func(t *testing.T) {
		err := pkgerrors.NewBandingError("M123", "Ninth Suffolk", "")
		assert.Equal(t, `cannot band member M123: district "Ninth Suffolk" unresolved`, err.Error())
		assert.True(t, pkgerrors.IsBanding(err))
	})

	t.Run("locality and district", func(t *testing.T) {
		err := pkgerrors.NewBandingError("M123", "Ninth Suffolk", "Boston")
		assert.Contains(t, err.Error(), `locality "Boston"`)
		assert.True(t, errors.Is(err, pkgerrors.ErrUnbandable))
	})
}

func TestUnmappedRoleError(t *testing.T) {
	err := &pkgerrors.UnmappedRoleError{MemberID: "M42", Role: "MEMBER"}
	assert.Equal(t, `member M42: role "MEMBER" maps to no stipend`, err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrUnmappedRole))

	withCommittee := &pkgerrors.UnmappedRoleError{MemberID: "M42", Role: "CLERK", Committee: "Rules"}
	assert.Contains(t, withCommittee.Error(), `"Rules"`)
}

func TestMatchError(t *testing.T) {
	err := &pkgerrors.MatchError{Side: "payroll", Name: "Jane Doe", Key: "doe jane"}
	assert.Equal(t, `no payroll-side match for "Jane Doe" (join key "doe jane")`, err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrNoMatch))
}

func TestAPIError(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		err := pkgerrors.NewAPIError("legislature", 429, "slow down")
		assert.True(t, pkgerrors.IsRateLimited(err))
		assert.False(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("server error", func(t *testing.T) {
		err := pkgerrors.NewAPIError("payroll", 503, "maintenance")
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("client error matches nothing", func(t *testing.T) {
		err := pkgerrors.NewAPIError("payroll", 404, "gone")
		assert.False(t, pkgerrors.IsRateLimited(err))
		assert.False(t, pkgerrors.IsSourceUnavailable(err))
	})
}

func TestWrappers(t *testing.T) {
	t.Run("nil in nil out", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapParse("json", "x.json", nil))
		assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
		assert.Nil(t, pkgerrors.WrapAPI("src", 500, nil))
	})

	t.Run("parse wrap", func(t *testing.T) {
		base := errors.New("unexpected EOF")
		err := pkgerrors.WrapParse("csv", "payroll.csv", base)
		assert.Contains(t, err.Error(), "payroll.csv")
		assert.True(t, errors.Is(err, base))
	})

	t.Run("io wrap", func(t *testing.T) {
		base := errors.New("permission denied")
		err := pkgerrors.WrapIO("write", "out/members.csv", base)
		assert.Contains(t, err.Error(), "out/members.csv")
		assert.True(t, errors.Is(err, base))
	})
}
