// Package astcheck runs structural checks over syntax trees and reports the
// findings as diagnostics. The tree itself accepts any shape; these checks are
// what tests and the driver use to catch malformed trees.
package astcheck
