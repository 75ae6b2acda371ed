// Command spv2msl cross-compiles a SPIR-V shader binary to Metal
// Shading Language source.
//
// Usage:
//
//	spv2msl [options] <input.spv>
//
// Examples:
//
//	spv2msl shader.spv                      # Translate to stdout
//	spv2msl -o shader.metal shader.spv      # Translate to file
//	spv2msl --bindings map.yaml shader.spv  # With a binding map
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spvmsl/msl"
	"github.com/gogpu/spvmsl/spirv"
)

var version = "0.1.0"

var (
	output         string
	bindingsFile   string
	mslVersion     string
	targetIOS      bool
	fixupClipspace bool
	flipVertY      bool
	noPointSize    bool
	keepSpecArrays bool
)

// bindingMap is the YAML shape of the vertex-attribute and
// resource-binding tables.
type bindingMap struct {
	VertexAttrs []struct {
		Location    uint32 `yaml:"location"`
		Buffer      uint32 `yaml:"buffer"`
		Offset      uint32 `yaml:"offset"`
		Stride      uint32 `yaml:"stride"`
		PerInstance bool   `yaml:"per_instance"`
	} `yaml:"vertex_attrs"`

	Resources []struct {
		Stage   string `yaml:"stage"`
		Set     uint32 `yaml:"set"`
		Binding uint32 `yaml:"binding"`
		Buffer  uint32 `yaml:"buffer"`
		Texture uint32 `yaml:"texture"`
		Sampler uint32 `yaml:"sampler"`
	} `yaml:"resources"`
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spv2msl [file]",
		Short: "spv2msl translates SPIR-V shader binaries to Metal Shading Language",
		Long: `spv2msl translates a SPIR-V shader module into Metal Shading
Language source, flattening Vulkan-style interface blocks into Metal
stage_in/stage_out structs and mapping descriptor bindings onto Metal
buffer, texture and sampler slots.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return translate(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringVar(&bindingsFile, "bindings", "", "YAML file with vertex attribute and resource binding tables")
	rootCmd.Flags().StringVar(&mslVersion, "msl-version", "1.2", "target MSL version (major.minor)")
	rootCmd.Flags().BoolVar(&targetIOS, "ios", false, "target the iOS flavor of Metal")
	rootCmd.Flags().BoolVar(&fixupClipspace, "fixup-clipspace", false, "rescale gl_Position.z for Metal clip space")
	rootCmd.Flags().BoolVar(&flipVertY, "flip-vert-y", false, "invert gl_Position.y")
	rootCmd.Flags().BoolVar(&noPointSize, "no-point-size", false, "omit the [[point_size]] qualifier")
	rootCmd.Flags().BoolVar(&keepSpecArrays, "keep-spec-array-lengths", false, "keep specialization constants used as array lengths")

	return rootCmd
}

func translate(filename string, out, errOut io.Writer) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: error reading %s: %v\n", filename, err)
		return err
	}

	words, err := spirv.WordsFromBytes(data)
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: %v\n", err)
		return err
	}
	module, err := spirv.Parse(words)
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: %v\n", err)
		return err
	}

	opts, err := buildOptions()
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: %v\n", err)
		return err
	}

	attrs, bindings, err := loadBindingMap(bindingsFile)
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: %v\n", err)
		return err
	}

	source, err := msl.CompileWithTables(module, opts, attrs, bindings)
	if err != nil {
		fmt.Fprintf(errOut, "spv2msl: translation error: %v\n", err)
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(source), 0644); err != nil {
			fmt.Fprintf(errOut, "spv2msl: error writing %s: %v\n", output, err)
			return err
		}
		fmt.Fprintf(errOut, "spv2msl: wrote %s (%d bytes)\n", output, len(source))
		return nil
	}

	fmt.Fprint(out, source)
	return nil
}

func buildOptions() (msl.Options, error) {
	opts := msl.DefaultOptions()
	opts.IsIOS = targetIOS
	opts.Vertex.FixupClipspace = fixupClipspace
	opts.Vertex.FlipVertY = flipVertY
	opts.EnablePointSizeBuiltin = !noPointSize
	opts.ResolveSpecializedArrayLengths = !keepSpecArrays

	var major, minor uint8
	if _, err := fmt.Sscanf(mslVersion, "%d.%d", &major, &minor); err != nil {
		return opts, fmt.Errorf("invalid MSL version %q", mslVersion)
	}
	opts.LangVersion = msl.Version{Major: major, Minor: minor}
	return opts, nil
}

// loadBindingMap parses the YAML binding tables, if a file was given.
func loadBindingMap(path string) ([]*msl.VertexAttrBinding, []*msl.ResourceBinding, error) {
	if path == "" {
		return nil, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var bm bindingMap
	if err := yaml.Unmarshal(data, &bm); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	attrs := make([]*msl.VertexAttrBinding, 0, len(bm.VertexAttrs))
	for _, va := range bm.VertexAttrs {
		attrs = append(attrs, &msl.VertexAttrBinding{
			Location:    va.Location,
			MSLBuffer:   va.Buffer,
			MSLOffset:   va.Offset,
			MSLStride:   va.Stride,
			PerInstance: va.PerInstance,
		})
	}

	bindings := make([]*msl.ResourceBinding, 0, len(bm.Resources))
	for _, rb := range bm.Resources {
		stage, err := parseStage(rb.Stage)
		if err != nil {
			return nil, nil, err
		}
		bindings = append(bindings, &msl.ResourceBinding{
			Stage:         stage,
			DescriptorSet: rb.Set,
			Binding:       rb.Binding,
			MSLBuffer:     rb.Buffer,
			MSLTexture:    rb.Texture,
			MSLSampler:    rb.Sampler,
		})
	}
	return attrs, bindings, nil
}

func parseStage(s string) (spirv.ExecutionModel, error) {
	switch s {
	case "vertex":
		return spirv.ExecutionModelVertex, nil
	case "fragment":
		return spirv.ExecutionModelFragment, nil
	case "compute":
		return spirv.ExecutionModelGLCompute, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", s)
	}
}
