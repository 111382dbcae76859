// Package snapshot loads and saves hydration snapshots.
//
// A Snapshot maps top-level state field names, as encoded by encoding/json,
// to values. It is what reflex.ProviderWithState merges over a producer's
// state on first render. Snapshots are stored as JSON, YAML or TOML files,
// or as objects in S3:
//
//	snap, err := snapshot.NewFileSource("state.yaml").Load(ctx)
//	if err != nil {
//	    return err
//	}
//	tree := reflex.ProviderWithState[State](store, snap, App())
//
// The file extension (or object key extension) selects the format.
package snapshot
