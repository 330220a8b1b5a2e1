package constants

import "time"

// BinaryName is the name used in user-facing output to refer to the CLI.
const BinaryName = "yls"

// DefaultSchemaFile is the schema graph file looked up next to checked
// documents when no --schema flag is given.
const DefaultSchemaFile = "yls-schema.yaml"

// MaxConcurrentChecks bounds the worker pool validating files in parallel.
const MaxConcurrentChecks = 8

// WatchDebounce is how long the watcher waits after the last write event
// before revalidating.
const WatchDebounce = 300 * time.Millisecond
