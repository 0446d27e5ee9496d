package messages

// Engine messages for version requirements, catalog access, and provisioning.
const (
	// RequirementEmpty reports an empty requirement string.
	RequirementEmpty                  = "empty version requirement"
	RequirementMissingVersion         = "comparator is missing a version"
	RequirementBuildMetadata          = "build metadata is not allowed in a version requirement"
	RequirementTooManyComponents      = "version requirement has more than three components"
	RequirementComponentAfterWildcard = "numeric component follows a wildcard"
	RequirementPreNeedsFullVersion    = "pre-release tag requires a full major.minor.patch version"
	RequirementEmptyComponent         = "empty version component"
	RequirementInvalidComparatorFmt   = "invalid comparator %q: %v"
	RequirementWildcardWithOpFmt      = "comparator %q combines an operator with a wildcard"
	RequirementInvalidComponentFmt    = "invalid version component %q"
	RequirementLeadingZeroFmt         = "version component %q has a leading zero"
	RequirementInvalidPreFmt          = "invalid pre-release %q"

	// CatalogCreateRequestFmt wraps request construction failures.
	CatalogCreateRequestFmt = "failed to create catalog request: %w"
	CatalogStatusFmt        = "unexpected catalog status %s"
	CatalogDecodeFmt        = "failed to decode catalog listing: %w"

	InstallCacheDirFmt       = "failed to resolve the user cache dir: %w"
	InstallCheckExistingFmt  = "failed to check existing runtime at %s: %w"
	InstallCreateDirFmt      = "failed to create %s: %w"
	InstallChmodFmt          = "failed to mark %s executable: %w"
	InstallStatusFmt         = "unexpected status %s"
	InstallListDirFmt        = "failed to list runtimes in %s: %w"
	InstallRemoveFmt         = "failed to remove %s: %w"
	InstallArchiveEscapeFmt  = "archive entry %s escapes the install directory"
	InstallArchiveMissingExe = "archive does not contain the runtime executable"

	SettingsDirFmt   = "failed to resolve the settings dir: %w"
	SettingsReadFmt  = "failed to read settings %s: %w"
	SettingsParseFmt = "invalid settings %s: %w"
	SettingsWriteFmt = "failed to write settings %s: %w"

	ManifestReadFmt        = "failed to read manifest %s: %w"
	ManifestParseFmt       = "invalid manifest %s: %w"
	ManifestInvalidFmt     = "invalid manifest: %w"
	ManifestRequirementFmt = "invalid skiff_version requirement: %w"
	ManifestWriteFmt       = "failed to write manifest %s: %w"
	ManifestMissingFmt     = "no manifest at %s"
)
