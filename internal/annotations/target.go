package annotations

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/toyz/ngcc/internal/errors"
)

// IvyVersion is the first core release whose runtime expects the ɵ-prefixed definitions
const IvyVersion = "v9.0.0"

// Target names the static fields and runtime functions compiled code refers to.
// They changed when the runtime moved to Ivy, so the emitted names follow the
// core version the output is meant to run against.
type Target struct {
	CoreVersion string

	ComponentField  string
	DirectiveField  string
	InjectableField string
	NgModuleField   string
	InjectorField   string

	DefineComponent   string
	DefineDirective   string
	DefineInjectable  string
	DefineNgModule    string
	DefineInjector    string
	Inject            string
	DirectiveInject   string
	InvalidFactoryDep string
}

// NewTarget resolves the naming scheme for coreVersion. An empty version selects the Ivy names.
func NewTarget(coreVersion string) (Target, error) {
	version := coreVersion
	if version == "" {
		version = IvyVersion
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return Target{}, errors.ConfigurationError("core-version",
			"invalid core version '"+coreVersion+"': expected a semantic version such as 9.1.0").
			WithSuggestion("Pass the version of @angular/core the output will run against, e.g. --core-version 12.2.0")
	}

	if semver.Compare(version, IvyVersion) < 0 {
		return legacyTarget(version), nil
	}
	return ivyTarget(version), nil
}

// DefaultTarget returns the Ivy naming scheme
func DefaultTarget() Target {
	return ivyTarget(IvyVersion)
}

// IsLegacy reports whether the target predates Ivy
func (t Target) IsLegacy() bool {
	return semver.Compare(t.CoreVersion, IvyVersion) < 0
}

func ivyTarget(version string) Target {
	return Target{
		CoreVersion:       version,
		ComponentField:    "ɵcmp",
		DirectiveField:    "ɵdir",
		InjectableField:   "ɵprov",
		NgModuleField:     "ɵmod",
		InjectorField:     "ɵinj",
		DefineComponent:   "ɵɵdefineComponent",
		DefineDirective:   "ɵɵdefineDirective",
		DefineInjectable:  "ɵɵdefineInjectable",
		DefineNgModule:    "ɵɵdefineNgModule",
		DefineInjector:    "ɵɵdefineInjector",
		Inject:            "ɵɵinject",
		DirectiveInject:   "ɵɵdirectiveInject",
		InvalidFactoryDep: "ɵɵinvalidFactoryDep",
	}
}

func legacyTarget(version string) Target {
	return Target{
		CoreVersion:       version,
		ComponentField:    "ngComponentDef",
		DirectiveField:    "ngDirectiveDef",
		InjectableField:   "ngInjectableDef",
		NgModuleField:     "ngModuleDef",
		InjectorField:     "ngInjectorDef",
		DefineComponent:   "ɵdefineComponent",
		DefineDirective:   "ɵdefineDirective",
		DefineInjectable:  "defineInjectable",
		DefineNgModule:    "ɵdefineNgModule",
		DefineInjector:    "defineInjector",
		Inject:            "inject",
		DirectiveInject:   "ɵdirectiveInject",
		InvalidFactoryDep: "ɵinvalidFactoryDep",
	}
}
