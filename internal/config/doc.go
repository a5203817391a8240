// Package config defines the format-agnostic plan model produced by
// configuration loaders, along with the Loader and Converter interfaces
// that decouple the engine from any concrete file format. The HCL
// implementation lives in the `hcl` package.
package config
