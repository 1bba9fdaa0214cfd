// Package config provides configuration parsing for Hashira projects.
//
// The configuration is stored in hashira.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "blog",
//	  "dev": {
//	    "host": "127.0.0.1",
//	    "port": 5000,
//	    "reloadPort": 5002,
//	    "watch": ["src", "public"],
//	    "ignore": ["tmp"]
//	  },
//	  "build": {
//	    "output": "dist",
//	    "publicDir": "public",
//	    "include": ["docs/**"],
//	    "release": true
//	  },
//	  "deploy": {
//	    "bucket": "blog-static",
//	    "region": "us-east-1"
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
//	fmt.Println("Port:", cfg.Dev.Port)
package config
