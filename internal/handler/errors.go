// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration carries no HTTP address. The application treats it as a
// fatal misconfiguration and fails at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
