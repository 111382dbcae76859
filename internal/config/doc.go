// Package config provides configuration parsing for the reflex CLI.
//
// The configuration is stored in reflex.json in the working directory.
// This package handles loading, saving, and validating it. Command-line
// flags override the loaded values.
//
// # Configuration File Structure
//
//	{
//	  "devtools": {
//	    "addr": "localhost:7070",
//	    "path": "/_reflex"
//	  },
//	  "snapshot": {
//	    "path": "snapshots/counter.json",
//	    "bucket": "my-bucket",
//	    "key": "snapshots/counter.json",
//	    "region": "us-east-1"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools:", cfg.Devtools.Addr)
package config
