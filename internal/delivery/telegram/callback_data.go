package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionMenu     = "menu"
	actionCategory = "cat"
	actionRule     = "rule"
	actionAck      = "ack"
	actionQuiz     = "quiz"
)

// Quiz sub-actions.
const (
	quizSelect = "sel"
	quizSubmit = "ok"
)

var errBadCallbackParam = errors.New("bad callback parameter")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as an integer.
func (cd callbackData) intParam(i int) (int, error) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, errBadCallbackParam
	}
	return n, nil
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
	}
}

func buildMenuCallback() string {
	return actionMenu
}

// buildCategoryCallback builds callback data for starting a quiz in a category.
func buildCategoryCallback(categoryID int) string {
	return callbackData{
		Action: actionCategory,
		Params: []string{strconv.Itoa(categoryID)},
	}.encode()
}

// buildRuleCallback builds callback data for opening a category rule.
func buildRuleCallback(categoryID int) string {
	return callbackData{
		Action: actionRule,
		Params: []string{strconv.Itoa(categoryID)},
	}.encode()
}

// buildAckCallback builds callback data for leaving the rule or result screen.
func buildAckCallback() string {
	return actionAck
}

// buildQuizSelectCallback builds callback data for picking an option of a question.
func buildQuizSelectCallback(sessionID string, questionNum, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizSelect,
			sessionID,
			strconv.Itoa(questionNum),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

// buildQuizSubmitCallback builds callback data for submitting the picked option.
func buildQuizSubmitCallback(sessionID string, questionNum int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizSubmit,
			sessionID,
			strconv.Itoa(questionNum),
		},
	}.encode()
}
