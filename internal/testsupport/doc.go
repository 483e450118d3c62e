// Package testsupport holds helpers shared by package tests: temp-dir backed
// configs and store fixtures.
package testsupport
