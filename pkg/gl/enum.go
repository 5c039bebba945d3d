package gl

import (
	"fmt"
	"slices"
)

// Enum is a GLenum value.
type Enum uint32

// Error codes.
const (
	NoError          Enum = 0
	InvalidEnum      Enum = 0x0500
	InvalidValue     Enum = 0x0501
	InvalidOperation Enum = 0x0502
	OutOfMemory      Enum = 0x0505
	ContextLostWebGL Enum = 0x9242
)

// Hints.
const (
	DontCare           Enum = 0x1100
	Fastest            Enum = 0x1101
	Nicest             Enum = 0x1102
	GenerateMipmapHint Enum = 0x8192
)

// Shader types.
const (
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
)

// Capabilities for Enable, Disable and IsEnabled.
const (
	CullFace              Enum = 0x0B44
	DepthTest             Enum = 0x0B71
	StencilTest           Enum = 0x0B90
	Dither                Enum = 0x0BD0
	Blend                 Enum = 0x0BE2
	ScissorTest           Enum = 0x0C11
	PolygonOffsetFill     Enum = 0x8037
	SampleAlphaToCoverage Enum = 0x809E
	SampleCoverage        Enum = 0x80A0
)

// Parameter names accepted by GetParameter.
const (
	LineWidth                     Enum = 0x0B21
	MaxTextureSize                Enum = 0x0D33
	Vendor                        Enum = 0x1F00
	Renderer                      Enum = 0x1F01
	Version                       Enum = 0x1F02
	ActiveTexture                 Enum = 0x84E0
	MaxRenderbufferSize           Enum = 0x84E8
	MaxVertexAttribs              Enum = 0x8869
	MaxTextureImageUnits          Enum = 0x8872
	MaxFragmentUniformVectors     Enum = 0x8DFD
	MaxVaryingVectors             Enum = 0x8DFC
	MaxVertexUniformVectors       Enum = 0x8DFB
	MaxCombinedTextureImageUnits  Enum = 0x8B4D
	MaxVertexTextureImageUnits    Enum = 0x8B4C
	ShadingLanguageVersion        Enum = 0x8B8C
	Texture0                      Enum = 0x84C0
	MaxCubeMapTextureSize         Enum = 0x851C
	CurrentProgram                Enum = 0x8B8D
	ArrayBufferBinding            Enum = 0x8894
	ElementArrayBufferBinding     Enum = 0x8895
	FramebufferBinding            Enum = 0x8CA6
	RenderbufferBinding           Enum = 0x8CA7
	UnpackFlipYWebGL              Enum = 0x9240
	UnpackPremultiplyAlphaWebGL   Enum = 0x9241
	UnpackColorspaceConversionWeb Enum = 0x9243
)

var enumNames = map[Enum]string{
	NoError:                       "NO_ERROR",
	InvalidEnum:                   "INVALID_ENUM",
	InvalidValue:                  "INVALID_VALUE",
	InvalidOperation:              "INVALID_OPERATION",
	OutOfMemory:                   "OUT_OF_MEMORY",
	ContextLostWebGL:              "CONTEXT_LOST_WEBGL",
	DontCare:                      "DONT_CARE",
	Fastest:                       "FASTEST",
	Nicest:                        "NICEST",
	GenerateMipmapHint:            "GENERATE_MIPMAP_HINT",
	FragmentShader:                "FRAGMENT_SHADER",
	VertexShader:                  "VERTEX_SHADER",
	CullFace:                      "CULL_FACE",
	DepthTest:                     "DEPTH_TEST",
	StencilTest:                   "STENCIL_TEST",
	Dither:                        "DITHER",
	Blend:                         "BLEND",
	ScissorTest:                   "SCISSOR_TEST",
	PolygonOffsetFill:             "POLYGON_OFFSET_FILL",
	SampleAlphaToCoverage:         "SAMPLE_ALPHA_TO_COVERAGE",
	SampleCoverage:                "SAMPLE_COVERAGE",
	LineWidth:                     "LINE_WIDTH",
	MaxTextureSize:                "MAX_TEXTURE_SIZE",
	Vendor:                        "VENDOR",
	Renderer:                      "RENDERER",
	Version:                       "VERSION",
	ActiveTexture:                 "ACTIVE_TEXTURE",
	MaxRenderbufferSize:           "MAX_RENDERBUFFER_SIZE",
	MaxVertexAttribs:              "MAX_VERTEX_ATTRIBS",
	MaxTextureImageUnits:          "MAX_TEXTURE_IMAGE_UNITS",
	MaxFragmentUniformVectors:     "MAX_FRAGMENT_UNIFORM_VECTORS",
	MaxVaryingVectors:             "MAX_VARYING_VECTORS",
	MaxVertexUniformVectors:       "MAX_VERTEX_UNIFORM_VECTORS",
	MaxCombinedTextureImageUnits:  "MAX_COMBINED_TEXTURE_IMAGE_UNITS",
	MaxVertexTextureImageUnits:    "MAX_VERTEX_TEXTURE_IMAGE_UNITS",
	ShadingLanguageVersion:        "SHADING_LANGUAGE_VERSION",
	Texture0:                      "TEXTURE0",
	MaxCubeMapTextureSize:         "MAX_CUBE_MAP_TEXTURE_SIZE",
	CurrentProgram:                "CURRENT_PROGRAM",
	ArrayBufferBinding:            "ARRAY_BUFFER_BINDING",
	ElementArrayBufferBinding:     "ELEMENT_ARRAY_BUFFER_BINDING",
	FramebufferBinding:            "FRAMEBUFFER_BINDING",
	RenderbufferBinding:           "RENDERBUFFER_BINDING",
	UnpackFlipYWebGL:              "UNPACK_FLIP_Y_WEBGL",
	UnpackPremultiplyAlphaWebGL:   "UNPACK_PREMULTIPLY_ALPHA_WEBGL",
	UnpackColorspaceConversionWeb: "UNPACK_COLORSPACE_CONVERSION_WEBGL",
}

// String returns the GL constant name, or the hex value for unknown enums.
func (e Enum) String() string {
	if name, ok := enumNames[e]; ok {
		return name
	}

	return fmt.Sprintf("0x%04X", uint32(e))
}

// EnumSet is an immutable set of enums that can be sampled.
type EnumSet struct {
	members []Enum
}

// NewEnumSet returns a set holding members, deduplicated, in the given order.
func NewEnumSet(members ...Enum) EnumSet {
	out := make([]Enum, 0, len(members))
	for _, m := range members {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}

	return EnumSet{members: out}
}

// Random returns a uniformly chosen member. Panics on an empty set.
func (s EnumSet) Random(src Source) Enum {
	if len(s.members) == 0 {
		panic("gl: Random on empty EnumSet")
	}

	return s.members[src.IntN(len(s.members))]
}

// Has reports whether e is a member of s.
func (s EnumSet) Has(e Enum) bool {
	return slices.Contains(s.members, e)
}

// Len returns the number of members.
func (s EnumSet) Len() int {
	return len(s.members)
}

// Members returns a copy of the members.
func (s EnumSet) Members() []Enum {
	return slices.Clone(s.members)
}

// Predefined sets.
var (
	MipmapHints = NewEnumSet(Fastest, Nicest, DontCare)
	ShaderTypes = NewEnumSet(VertexShader, FragmentShader)
	EnableCaps  = NewEnumSet(
		Blend, CullFace, DepthTest, Dither, PolygonOffsetFill,
		SampleAlphaToCoverage, SampleCoverage, ScissorTest, StencilTest,
	)
	ParameterNames = NewEnumSet(
		ActiveTexture, ArrayBufferBinding, CurrentProgram, ElementArrayBufferBinding,
		FramebufferBinding, GenerateMipmapHint, LineWidth, MaxCombinedTextureImageUnits,
		MaxCubeMapTextureSize, MaxFragmentUniformVectors, MaxRenderbufferSize,
		MaxTextureImageUnits, MaxTextureSize, MaxVaryingVectors, MaxVertexAttribs,
		MaxVertexTextureImageUnits, MaxVertexUniformVectors, RenderbufferBinding,
		Renderer, ShadingLanguageVersion, UnpackColorspaceConversionWeb,
		UnpackFlipYWebGL, UnpackPremultiplyAlphaWebGL, Vendor, Version,
	)
)
