// Package diag carries diagnostics from every compiler phase to the
// driver: stable codes, severities, source spans, and the Bag that
// collects them per module. Phases report through the Reporter
// interface and never print directly.
package diag
