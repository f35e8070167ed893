// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Their only third-party imports are
// zap for logging, x/time/rate for pacing model calls and uuid for run
// identifiers.
package services
