package quote_test

import (
	"testing"

	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionRelation(t *testing.T) {
	type edge struct {
		from   quote.Status
		action quote.Action
	}
	expected := map[edge]quote.Status{
		{quote.Draft, quote.ActionSend}:      quote.Sent,
		{quote.Draft, quote.ActionSupersede}: quote.Rejected,
		{quote.Draft, quote.ActionExpire}:    quote.Expired,
		{quote.Sent, quote.ActionAccept}:     quote.Accepted,
		{quote.Sent, quote.ActionReject}:     quote.Rejected,
		{quote.Sent, quote.ActionSupersede}:  quote.Rejected,
		{quote.Sent, quote.ActionExpire}:     quote.Expired,
		{quote.Sent, quote.ActionRevise}:     quote.Revised,
	}

	for _, s := range quote.Statuses() {
		for _, a := range quote.Actions() {
			next, err := s.Next(a)
			if want, ok := expected[edge{s, a}]; ok {
				require.NoError(t, err)
				assert.Equal(t, want, next)
				continue
			}
			require.ErrorIs(t, err, errs.ErrInvalidTransition, "%s --%s-->", s, a)
		}
	}
}

func TestStatus_Classification(t *testing.T) {
	for _, s := range quote.Statuses() {
		active := s == quote.Draft || s == quote.Sent
		assert.Equal(t, active, s.IsActive(), s.String())
		assert.Equal(t, !active, s.IsTerminal(), s.String())
	}
	assert.Equal(t, []quote.Status{quote.Draft, quote.Sent}, quote.ActiveStatuses())
}

func TestStatus_StringAndParse(t *testing.T) {
	for i, name := range []string{"BROUILLON", "ENVOYE", "ACCEPTE", "REFUSE", "EXPIRE", "MODIFIE"} {
		s := quote.Statuses()[i]
		assert.Equal(t, name, s.String())

		parsed, err := quote.ParseStatus(name)
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := quote.ParseStatus("PENDING")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, quote.Unknown.Validate())
}
