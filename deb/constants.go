package deb

// ControlField represents a standard field in a Debian control file.
type ControlField string

const (
	FieldPackage       ControlField = "Package"
	FieldVersion       ControlField = "Version"
	FieldArchitecture  ControlField = "Architecture"
	FieldMaintainer    ControlField = "Maintainer"
	FieldDescription   ControlField = "Description"
	FieldSection       ControlField = "Section"
	FieldPriority      ControlField = "Priority"
	FieldHomepage      ControlField = "Homepage"
	FieldEssential     ControlField = "Essential"
	FieldDepends       ControlField = "Depends"
	FieldPreDepends    ControlField = "Pre-Depends"
	FieldRecommends    ControlField = "Recommends"
	FieldSuggests      ControlField = "Suggests"
	FieldEnhances      ControlField = "Enhances"
	FieldConflicts     ControlField = "Conflicts"
	FieldBreaks        ControlField = "Breaks"
	FieldReplaces      ControlField = "Replaces"
	FieldProvides      ControlField = "Provides"
	FieldBuiltUsing    ControlField = "Built-Using"
	FieldSource        ControlField = "Source"
	FieldInstalledSize ControlField = "Installed-Size"
)

// ControlEntry is the path of an entry inside the control archive.
type ControlEntry string

const (
	EntryControl   ControlEntry = "./control"
	EntryConffiles ControlEntry = "./conffiles"
)

// PackageMember is the name of a member of the outer .deb (ar) archive.
type PackageMember string

const (
	MemberDebianBinary PackageMember = "debian-binary"
	MemberControlTarGz PackageMember = "control.tar.gz"
	MemberDataTarXz    PackageMember = "data.tar.xz"

	// Prefixes shared by every control and data member variant.
	memberControlPrefix = "control.tar"
	memberDataPrefix    = "data.tar"
)

// arMagic is the global header of an ar archive.
const arMagic = "!<arch>\n"
