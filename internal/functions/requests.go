package functions

import (
	"encoding/json"
	"fmt"

	"kuisin/internal/domain"
)

// Each resource accepts a closed set of request variants. decode* reads the
// action tag and unmarshals the body into the matching variant.

type quizRequest interface{ quizRequest() }

type (
	listQuizzes  struct{}
	createQuiz   struct {
		QuizData domain.QuizInput `json:"quizData"`
		UserID   string           `json:"userId"`
	}
	updateQuiz struct {
		QuizID   string           `json:"quizId"`
		QuizData domain.QuizInput `json:"quizData"`
	}
	deleteQuiz struct {
		QuizID string `json:"quizId"`
	}
	toggleQuiz struct {
		QuizID string `json:"quizId"`
	}
	getQuiz struct {
		QuizID string `json:"quizId"`
	}
)

func (listQuizzes) quizRequest() {}
func (createQuiz) quizRequest()  {}
func (updateQuiz) quizRequest()  {}
func (deleteQuiz) quizRequest()  {}
func (toggleQuiz) quizRequest()  {}
func (getQuiz) quizRequest()     {}

type questionRequest interface{ questionRequest() }

type (
	listQuestions struct {
		QuizID string `json:"quizId"`
	}
	createQuestion struct {
		QuizID       string               `json:"quizId"`
		QuestionData domain.QuestionInput `json:"questionData"`
	}
	updateQuestion struct {
		QuestionID   string               `json:"questionId"`
		QuestionData domain.QuestionInput `json:"questionData"`
	}
	deleteQuestion struct {
		QuestionID string `json:"questionId"`
	}
	getQuestion struct {
		QuestionID string `json:"questionId"`
	}
)

func (listQuestions) questionRequest()  {}
func (createQuestion) questionRequest() {}
func (updateQuestion) questionRequest() {}
func (deleteQuestion) questionRequest() {}
func (getQuestion) questionRequest()    {}

type participantRequest interface{ participantRequest() }

type (
	listParticipants struct {
		QuizID string `json:"quizId"`
	}
	joinQuiz struct {
		QuizCode        string `json:"quizCode"`
		ParticipantName string `json:"participantName"`
	}
	updateParticipant struct {
		ParticipantID   string                  `json:"participantId"`
		ParticipantData domain.ParticipantPatch `json:"participantData"`
	}
	leaderboard struct {
		QuizID string `json:"quizId"`
	}
)

func (listParticipants) participantRequest()  {}
func (joinQuiz) participantRequest()          {}
func (updateParticipant) participantRequest() {}
func (leaderboard) participantRequest()       {}

type answerRequest interface{ answerRequest() }

type (
	submitAnswer struct {
		ParticipantID string `json:"participantId"`
		QuestionID    string `json:"questionId"`
		AnswerData    struct {
			SelectedOption *int `json:"selected_option"`
		} `json:"answerData"`
	}
	listAnswers struct {
		ParticipantID string `json:"participantId"`
	}
	participantDetails struct {
		ParticipantID string `json:"participantId"`
		QuizID        string `json:"quizId"`
	}
)

func (submitAnswer) answerRequest()       {}
func (listAnswers) answerRequest()        {}
func (participantDetails) answerRequest() {}

type authRequest interface{ authRequest() }

type (
	login struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	logout struct{}
	me     struct{}
)

func (login) authRequest()  {}
func (logout) authRequest() {}
func (me) authRequest()     {}

type waitlistRequest interface{ waitlistRequest() }

type (
	joinWaitlist struct {
		domain.WaitlistInput
	}
	listWaitlist   struct{}
	inviteWaitlist struct {
		EntryID string `json:"entryId"`
	}
)

func (joinWaitlist) waitlistRequest()   {}
func (listWaitlist) waitlistRequest()   {}
func (inviteWaitlist) waitlistRequest() {}

type inbound struct {
	Action string `json:"action"`
}

func readAction(body []byte) (string, error) {
	var in inbound
	if err := json.Unmarshal(body, &in); err != nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return in.Action, nil
}

func decodeInto[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, &domain.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return v, nil
}

func decodeQuizRequest(action string, body []byte) (quizRequest, error) {
	switch action {
	case "list":
		return listQuizzes{}, nil
	case "create":
		return decodeInto[createQuiz](body)
	case "update":
		return decodeInto[updateQuiz](body)
	case "delete":
		return decodeInto[deleteQuiz](body)
	case "toggle":
		return decodeInto[toggleQuiz](body)
	case "get":
		return decodeInto[getQuiz](body)
	default:
		return nil, domain.ErrUnknownAction
	}
}

func decodeQuestionRequest(action string, body []byte) (questionRequest, error) {
	switch action {
	case "list":
		return decodeInto[listQuestions](body)
	case "create":
		return decodeInto[createQuestion](body)
	case "update":
		return decodeInto[updateQuestion](body)
	case "delete":
		return decodeInto[deleteQuestion](body)
	case "get":
		return decodeInto[getQuestion](body)
	default:
		return nil, domain.ErrUnknownAction
	}
}

func decodeParticipantRequest(action string, body []byte) (participantRequest, error) {
	switch action {
	case "list":
		return decodeInto[listParticipants](body)
	case "join":
		return decodeInto[joinQuiz](body)
	case "update":
		return decodeInto[updateParticipant](body)
	case "leaderboard":
		return decodeInto[leaderboard](body)
	default:
		return nil, domain.ErrUnknownAction
	}
}

func decodeAnswerRequest(action string, body []byte) (answerRequest, error) {
	switch action {
	case "submit":
		return decodeInto[submitAnswer](body)
	case "list":
		return decodeInto[listAnswers](body)
	case "participantDetails":
		return decodeInto[participantDetails](body)
	default:
		return nil, domain.ErrUnknownAction
	}
}

func decodeAuthRequest(action string, body []byte) (authRequest, error) {
	switch action {
	case "login":
		return decodeInto[login](body)
	case "logout":
		return logout{}, nil
	case "me":
		return me{}, nil
	default:
		return nil, domain.ErrUnknownAction
	}
}

func decodeWaitlistRequest(action string, body []byte) (waitlistRequest, error) {
	switch action {
	case "join":
		return decodeInto[joinWaitlist](body)
	case "list":
		return listWaitlist{}, nil
	case "invite":
		return decodeInto[inviteWaitlist](body)
	default:
		return nil, domain.ErrUnknownAction
	}
}
