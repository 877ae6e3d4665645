// Package config loads the optional lumen.yaml project configuration.
//
// # Configuration File Structure
//
//	pools:
//	  ids:
//	    initial: 64
//	    max: 4096
//	    growthFactor: 2
//	    shrinkThreshold: 0.25
//	    minSize: 16
//	scheduler:
//	  maxFlushIterations: 100
//	server:
//	  addr: ":8080"
//	log:
//	  level: info
//	  file: lumen.log
//	export:
//	  bucket: my-site
//	  prefix: v1
//	  region: us-east-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Apply(); err != nil {
//	    log.Fatal(err)
//	}
package config
