// Package maven reads published versions from Maven style repositories.
//
// # Overview
//
// Every Maven repository publishes, per artifact, a maven-metadata.xml
// document listing all released versions:
//
//	https://repo.maven.apache.org/maven2/org/neo4j/gds/proc/maven-metadata.xml
//
// [Client.FetchVersions] downloads that document through the shared
// [integrations.Client] (retries, circuit breaker, Basic Auth) and returns
// the listed version strings unparsed. Interpreting them is up to the
// caller.
//
// # Usage
//
//	client, err := maven.NewClient("", integrations.WithBasicAuth(user, pass))
//	if err != nil {
//	    return err
//	}
//	versions, err := client.FetchVersions(ctx, coordinate.Coordinate{
//	    GroupID:    "org.neo4j.gds",
//	    ArtifactID: "proc",
//	})
//
// [integrations.Client]: github.com/knutwalker/latest-maven-version/pkg/integrations.Client
package maven
