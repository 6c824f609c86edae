// Package pipeline wires the full batch run together: loading the
// traffic and weather inputs, repairing the aligned series, evaluating
// the candidate model bank on a held-out window, and producing the
// production forecast with the best candidate refit on the full history.
package pipeline
