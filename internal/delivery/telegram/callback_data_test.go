package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackData_RoundTrip(t *testing.T) {
	const sid = "2f1b9c1e-8a5d-4f7e-9b0a-3c6d2e1f4a5b"

	tests := []struct {
		name   string
		data   string
		action string
		params []string
	}{
		{name: "menu", data: buildMenuCallback(), action: actionMenu},
		{name: "ack", data: buildAckCallback(), action: actionAck},
		{name: "category", data: buildCategoryCallback(3), action: actionCategory, params: []string{"3"}},
		{name: "rule", data: buildRuleCallback(5), action: actionRule, params: []string{"5"}},
		{
			name:   "quiz select",
			data:   buildQuizSelectCallback(sid, 7, 2),
			action: actionQuiz,
			params: []string{quizSelect, sid, "7", "2"},
		},
		{
			name:   "quiz submit",
			data:   buildQuizSubmitCallback(sid, 10),
			action: actionQuiz,
			params: []string{quizSubmit, sid, "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := decodeCallback(tt.data)

			assert.Equal(t, tt.action, cd.Action)
			if len(tt.params) == 0 {
				assert.Empty(t, cd.Params)
			} else {
				assert.Equal(t, tt.params, cd.Params)
			}
			assert.Equal(t, tt.data, cd.encode())
			assert.LessOrEqual(t, len(tt.data), 64)
		})
	}
}

func TestCallbackData_Params(t *testing.T) {
	cd := decodeCallback("cat:12:x")

	n, err := cd.intParam(0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = cd.intParam(1)
	assert.ErrorIs(t, err, errBadCallbackParam)

	_, err = cd.intParam(5)
	assert.ErrorIs(t, err, errBadCallbackParam)

	assert.Equal(t, "", cd.param(-1))
	assert.Equal(t, "x", cd.param(1))
}
