// flags.go defines constants for CLI flag names shared across extensions.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

const (
	// Boolean flags

	FlagDryRun  = "dry-run" // Preview without making changes
	FlagForce   = "force"   // Sync documents even when unchanged
	FlagPending = "pending" // Only list documents a sync would act on
	FlagRaw     = "raw"     // Raw output without terminal rendering

	// String flags

	FlagContentType = "content-type" // docs, pages or posts
	FlagPath        = "path"         // Subdirectory or document below the docs root
	FlagTags        = "tags"         // Comma-separated tag names

	// Other flags

	FlagDebounce = "debounce" // Quiet period before a watch sync
	FlagLimit    = "limit"    // Limit number of results
	FlagSince    = "since"    // Only entries newer than an age
)
