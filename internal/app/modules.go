package app

import (
	"github.com/vk/flowgridgo/internal/registry"
	"github.com/vk/flowgridgo/modules/env_vars"
	"github.com/vk/flowgridgo/modules/http_request"
	"github.com/vk/flowgridgo/modules/jsonquery"
	"github.com/vk/flowgridgo/modules/print"
	"github.com/vk/flowgridgo/modules/sleep"
	"github.com/vk/flowgridgo/modules/socketio"
)

// coreModules is the definitive list of all runner modules that are compiled
// into the flowgridgo binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&http_request.Module{},
	&jsonquery.Module{},
	&print.Module{},
	&sleep.Module{},
	&socketio.Module{},
}
