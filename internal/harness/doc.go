// Package harness runs conformance scenarios against the node generator.
//
// A scenario names a CUE spec and one node in it, generates every
// fragment for that node, and checks the outcome against a list of
// assertions. Scenarios double as golden tests: the generated fragments
// are snapshotted as canonical JSON.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: brick_texture
//	description: "Texture node stored in a dedicated struct"
//	spec: ../specs/brick.cue
//	node: Brick Texture
//	options:
//	  enum_prefix: SHD_BRICK
//	assertions:
//	  - type: storage
//	    expect: struct
//	  - type: words
//	    words: ["compiler.encode_uchar4(squash, mode)", "vector_stack_offset", "fac_stack_offset"]
//	  - type: guard
//	    socket: Fac
//	    expect: "mode != SHD_BRICK_EASING"
//	  - type: fragment_contains
//	    fragment: dna_struct
//	    text: "char filepath[16];"
//	  - type: fragment_absent
//	    fragment: ui_init
//
// A scenario expecting generation to fail carries a single error
// assertion whose expect text must appear in the error message:
//
//	assertions:
//	  - type: error
//	    expect: header overflow
//
// Spec paths are relative to the scenario file.
//
// # Assertion Types
//
//   - storage: the storage strategy, "inline" or "struct"
//   - words: the encode expression of every header word, in order
//   - guard: the rendered availability guard of one output socket
//   - fragment_contains: a fragment exists and contains text
//   - fragment_absent: a fragment was not generated
//   - error: generation failed with a matching message
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/brick.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
