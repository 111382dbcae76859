// Package counter is the demo application driven by the reflex CLI: a
// counter producer and a Counter component bound to it through
// reflex.UseSelector.
package counter
