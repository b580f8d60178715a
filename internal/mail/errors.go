// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"errors"
	"fmt"
)

// Delivery stages reported by DeliveryError.
const (
	StageConfig  = "config"
	StageDial    = "dial"
	StageTLS     = "starttls"
	StageAuth    = "auth"
	StageSend    = "send"
	StageEnqueue = "enqueue"
)

// ErrNotConfigured is returned when no mail account is configured.
var ErrNotConfigured = errors.New("mail account is not configured")

// DeliveryError reports a message that could not be handed to the relay.
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed at %s: %v", e.Stage, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func deliveryError(stage string, err error) error {
	return &DeliveryError{Stage: stage, Err: err}
}
