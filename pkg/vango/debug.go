package vango

// DebugMode enables dev-time validation such as hook order checking.
// It should be set at startup and not changed during runtime.
var DebugMode bool
