// Package registry resolves container image references to the environment
// variables declared in their image configuration.
//
// The client speaks the OCI distribution protocol via ORAS: it resolves the
// reference to a manifest (descending through a multi-arch index when one is
// published), fetches the configuration blob, and returns its environment
// assignments as a name-to-value map. Only the configuration is read; no
// layers are pulled.
//
// Authentication reuses the local Docker credential store. Registry calls
// pass through a token-bucket rate limiter so repeated CI runs stay polite.
//
//	client := registry.NewClient()
//	env, err := client.ImageEnv(ctx, "jenkins/jenkins:lts@sha256:abc...")
//	if err != nil {
//	    // Handle error
//	}
//	upstream := env["JENKINS_VERSION"]
package registry
