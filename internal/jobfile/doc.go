// Package jobfile loads declarative build jobs from YAML or TOML files.
//
// A job file names the job, its tags, the dependencies its execution context
// needs and the ordered steps to run:
//
//	name: mypkg
//	kind: go
//	tags: [linux]
//	dependencies: [golang.org/x/tools/cmd/stringer@latest]
//	steps:
//	  - name: checkout
//	    clone: {url: https://example.com/mypkg.git, ref: main, dir: src}
//	  - workdir: src
//	  - name: build
//	    run: go build ./...
//
// A step has at most one of run and clone. Steps with neither are standalone
// modifiers. The optional kind selects a preset; the go preset supplies vet,
// build and test steps when the file has none and adds the go_module tag.
package jobfile
