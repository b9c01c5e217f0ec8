// Package pkg provides the libraries behind latest-maven-version.
//
// # Overview
//
// latest-maven-version answers "which is the newest published version of
// this artifact that satisfies my range?" for any number of ranges at once.
// The pkg directory is organized as:
//
//  1. [coordinate], [version], [qualifier] - parsing user input and published versions
//  2. [resolve] - applying qualifiers to the fetched versions
//  3. [integrations] - HTTP clients, with [integrations/maven] reading maven-metadata.xml
//  4. [report] - text, JSON and TOML output
//  5. [errors], [httputil], [observability], [buildinfo] - shared infrastructure
//
// # Data flow
//
//	groupId:artifactId[:qualifier]*
//	         ↓
//	    [coordinate] + [qualifier] (parse)
//	         ↓
//	    [integrations/maven] (fetch maven-metadata.xml)
//	         ↓
//	    [version] (lenient parse, unparsable versions dropped)
//	         ↓
//	    [resolve] (one winner per qualifier, in order)
//	         ↓
//	    [report] (text, JSON, TOML)
//
// # Quick Start
//
//	client, err := maven.NewClient(maven.DefaultResolver)
//	if err != nil {
//	    return err
//	}
//	check, err := coordinate.ParseCheck("org.neo4j.gds:proc:~1.1:1")
//	if err != nil {
//	    return err
//	}
//	qualifiers, err := qualifier.ParseAll(check.Qualifiers)
//	if err != nil {
//	    return err
//	}
//	req := resolve.NewRequest(check.Coordinate, qualifiers, false)
//	result, err := resolve.NewRunner(client, nil).Run(ctx, req)
//	if err != nil {
//	    return err
//	}
//	return report.Write(os.Stdout, report.FormatText, report.New(result, client.Resolver()), report.PlainStyles())
package pkg
