package dto

import "time"

type SweepRequestDTO struct {
	TimeoutMinutes int `json:"timeoutMinutes" validate:"gte=0"`
	MaxAttempts    int `json:"maxAttempts" validate:"gte=0"`
}

type SweepResponseDTO struct {
	ResetCount  int       `json:"resetCount"`
	FailedCount int       `json:"failedCount"`
	Timestamp   time.Time `json:"timestamp"`
}

type DispatchResultDTO struct {
	Claimed   int `json:"claimed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type TriggerResponseDTO struct {
	OK         bool               `json:"ok"`
	Message    string             `json:"message"`
	JobsQueued int64              `json:"jobsQueued"`
	Watchdog   SweepCountsDTO     `json:"watchdog"`
	Dispatcher *DispatchResultDTO `json:"dispatcherResult,omitempty"`
}

type SweepCountsDTO struct {
	ResetCount  int `json:"reset_count"`
	FailedCount int `json:"failed_count"`
}
