// Package experimental includes hooks we aren't yet sure about, such as observing every node the lowering
// replaces. These are enabled with context.Context keys.
//
// Note: All features here may be changed or deleted at any time, so use with caution!
package experimental
