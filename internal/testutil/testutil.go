// Package testutil provides helpers for building workspaces in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content in dir, creating parent
// directories as needed. Returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteWorkspace writes files (relative path to content) into a fresh
// temporary directory and returns it.
func WriteWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// CommonsWorkspace returns the files of a two-module library workspace with
// stacked convention fragments, a version catalog and an included module.
func CommonsWorkspace() map[string]string {
	return map[string]string{
		"workspace.cue":                      commonsWorkspaceCUE,
		"gradle/libs.versions.toml":          commonsCatalog,
		"clusterless-commons-aws/module.cue": commonsAWSModule,
	}
}

const commonsWorkspaceCUE = `
seed: ["java-common-properties"]
include: ["*/module.cue"]

plugins: "io.github.gradle-nexus.publish-plugin": tasks: ["publishToSonatype"]

fragments: {
	"java-common-properties": properties: [
		{key: "group", value: "io.clusterless"},
		{key: "version", value: "0.11"},
		{key: "repoUserName", systemProperty: "publish.repo.userName"},
		{key: "repoPassword", systemProperty: "publish.repo.password"},
		{key: "currentCommit", systemProperty: "build.vcs.number"},
		{key: "currentBranch", systemProperty: "build.vcs.branch"},
	]

	"java-common-conventions": {
		plugins: ["java-common-properties", "java"]
		repositories: ["mavenCentral"]
		catalog: "gradle/libs.versions.toml"
		constraints: "org.jetbrains:annotations": "24.0.0"
		toolchain: languageVersion: 11
		testing: {framework: "junit-jupiter", version: "5.9.3"}
		artifacts: ["javadoc", "sources"]
		tasks: [{
			task: "javadoc"
			set: {
				title:       "Clusterless Commons ${version} API"
				failOnError: false
				encoding:    "UTF8"
			}
		}]
	}

	"java-library-conventions": {
		plugins: ["java-common-properties", "java-common-conventions", "java-library", "maven-publish", "signing"]
		publishing: {
			publication:   "mavenJava"
			name:          "Clusterless Commons"
			description:   "APIs for building things in the cloud."
			url:           "https://docs.clusterless.io/"
			inceptionYear: "2023"
			licenses: [{name: "Mozilla Public License, v. 2.0", url: "https://mozilla.org/MPL/2.0/", distribution: "repo"}]
			developers: [{id: "cwensel", name: "Chris K Wensel", email: "chris@wensel.net"}]
			scm: "https://github.com/ClusterlessHQ/clusterless-commons/"
			repository: {
				name: "GitHubPackages"
				url:  "https://maven.pkg.github.com/ClusterlessHQ/clusterless-commons"
				credentials: {
					username: [{kind: "property", name: "repoUserName"}, {kind: "env", name: "GPR_USERNAME"}]
					password: [{kind: "property", name: "repoPassword"}, {kind: "env", name: "GPR_TOKEN"}]
				}
			}
			sign: false
		}
	}
}

modules: "clusterless-commons-core": {
	fragments: ["java-library-conventions"]
	dependencies: [
		{configuration: "api", coordinate: "com.google.guava:guava"},
		{configuration: "compileOnly", coordinate: "org.jetbrains:annotations"},
	]
}
`

const commonsCatalog = `
[versions]
guava = "31.1-jre"

[libraries]
guava = { module = "com.google.guava:guava", version.ref = "guava" }
`

const commonsAWSModule = `
name: "clusterless-commons-aws"
fragments: ["java-library-conventions"]
overrides: toolchain: languageVersion: 17
dependencies: [
	{configuration: "api", project: "clusterless-commons-core"},
	{configuration: "api", coordinate: "software.amazon.awssdk:s3", version: "2.20.69"},
]
`
