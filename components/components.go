// Package components defines ECS components for creatures.
package components
