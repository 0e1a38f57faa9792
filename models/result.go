package models

import "time"

// ResultOutcome — исход матча с точки зрения отправителя.
// Исход соперника — логическая инверсия (win<->loss, draw<->draw).
type ResultOutcome string

const (
	ResultWin  ResultOutcome = "win"
	ResultLoss ResultOutcome = "loss"
	ResultDraw ResultOutcome = "draw"
)

type ResultStatus string

const (
	ResultStatusPending  ResultStatus = "pending"
	ResultStatusApproved ResultStatus = "approved"
	ResultStatusRejected ResultStatus = "rejected"
)

// MatchResult — заявка игрока об исходе матча, ожидающая решения админа.
// Создаётся в статусе pending и переходит ровно один раз в approved либо rejected.
// Скриншот после прикрепления неизменяем: повторная подача — это новая запись.
type MatchResult struct {
	ID              string        `json:"id"`
	MatchID         string        `json:"match_id"`
	SubmittedBy     string        `json:"submitted_by"`
	Result          ResultOutcome `json:"result"`
	Score           *string       `json:"score,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	ScreenshotKey   *string       `json:"-"`
	ScreenshotURL   *string       `json:"screenshot_url,omitempty"`
	Status          ResultStatus  `json:"status"`
	ReviewedBy      *string       `json:"reviewed_by,omitempty"`
	ReviewDate      *time.Time    `json:"review_date,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// OpposingOutcome возвращает исход матча для соперника отправителя.
func (o ResultOutcome) OpposingOutcome() ResultOutcome {
	switch o {
	case ResultWin:
		return ResultLoss
	case ResultLoss:
		return ResultWin
	default:
		return ResultDraw
	}
}

// PendingResult — строка очереди модерации: результат, джойны матча,
// турнира, игры и обоих игроков. Очередь FIFO, сортировка по created_at.
type PendingResult struct {
	MatchResult
	Tournament string        `json:"tournament"`
	Game       string        `json:"game"`
	Player1    PlayerSummary `json:"player1"`
	Player2    PlayerSummary `json:"player2"`
}

// PlayerSummary — краткая карточка игрока для вложенных структур.
type PlayerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
}
