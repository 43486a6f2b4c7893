// Package ui provides the terminal presentation and interaction layer.
//
// The workflow never talks to the terminal directly. It receives a Reporter
// for status output and a Confirmer/Prompter for user decisions, so the
// whole pipeline can run headless in tests with stub implementations. The
// console implementations here add color, a progress spinner and table
// rendering on top of those interfaces.
package ui
