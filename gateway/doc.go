// Package gateway defines the collaborator boundary to the OMERO server and
// provides a concrete client over the OMERO.web JSON API.
//
// # Overview
//
// The triple generator and the containment traversal never talk to the
// server directly. They consume the Gateway interface: encode an object into
// its generic key/value form, enumerate a container's children, list linked
// annotations, fetch an image's primary pixel set, and query regions of
// interest with their shapes. The interface also resolves the server host
// used to compose subject IRIs.
//
// WebClient implements Gateway over the OMERO.web JSON API; tests use the
// in-memory fake in the gatewaytest subpackage.
//
// # Quick Start
//
//	gw, err := gateway.NewWebClient(gateway.WebClientConfig{
//	    BaseURL: "https://idr.openmicroscopy.org",
//	})
//	if err != nil {
//	    return err
//	}
//	ref, err := gateway.ParseTarget("Image:123")
package gateway
