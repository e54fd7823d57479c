package httpapi

import (
	"fmt"

	"pntools/internal/common/fsutil"
	"pntools/internal/filemanager"
	"pntools/pkg/broadcast"
	"pntools/pkg/types"
)

// Inspector serves a broadcast registry and, optionally, a file manager.
type Inspector struct {
	reg   *broadcast.Registry
	files *filemanager.Manager
	unit  fsutil.Unit
}

// NewInspector returns a Service over reg (broadcast.Default when nil). fm
// may be nil, in which case GET /files answers 503.
func NewInspector(reg *broadcast.Registry, fm *filemanager.Manager, unit fsutil.Unit) *Inspector {
	if reg == nil {
		reg = broadcast.Default
	}
	if unit <= 0 {
		unit = fsutil.MB
	}
	return &Inspector{reg: reg, files: fm, unit: unit}
}

var _ Service = (*Inspector)(nil)

func (s *Inspector) Channels() types.ChannelsResponse {
	infos := s.reg.Channels()
	out := types.ChannelsResponse{Namespace: s.reg.Name(), Channels: make([]types.Channel, 0, len(infos))}
	for _, info := range infos {
		out.Channels = append(out.Channels, toChannel(info.Key, info.Receivers))
	}
	return out
}

func (s *Inspector) lookup(key string) (*broadcast.Channel, error) {
	k, err := broadcast.ParseChannelKey(key)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	ch := s.reg.Lookup(k)
	if ch.Len() == 0 {
		return nil, notFound(fmt.Sprintf("no receivers on %s", k))
	}
	return ch, nil
}

func (s *Inspector) Channel(key string) (types.Channel, error) {
	ch, err := s.lookup(key)
	if err != nil {
		return types.Channel{}, err
	}
	return toChannel(ch.Key(), ch.Receivers()), nil
}

// ClearChannel disconnects every receiver and reports how many there were.
func (s *Inspector) ClearChannel(key string) (int, error) {
	ch, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	n := ch.Len()
	ch.Clear()
	return n, nil
}

func (s *Inspector) Files(units string) (types.FilesResponse, error) {
	if s.files == nil {
		return types.FilesResponse{}, unavailable("no file manager configured")
	}
	unit := s.unit
	if units != "" {
		u, err := fsutil.ParseUnit(units)
		if err != nil {
			return types.FilesResponse{}, badRequest(err.Error())
		}
		unit = u
	}
	reps, err := s.files.Report(unit)
	if err != nil {
		return types.FilesResponse{}, err
	}
	out := types.FilesResponse{BaseDir: s.files.BaseDir(), Units: unit.String(), Groups: make([]types.GroupReport, 0, len(reps))}
	for _, r := range reps {
		out.Groups = append(out.Groups, types.GroupReport{
			Name:  r.Name,
			Files: r.Files,
			Bytes: r.Bytes,
			Size:  r.Size,
			Human: fsutil.HumanSize(r.Bytes),
		})
	}
	return out, nil
}

// KeyParts decomposes a channel key for the API.
func KeyParts(k broadcast.ChannelKey) types.KeyParts {
	return types.KeyParts{
		Timing:   k.Timing.String(),
		Module:   k.Module,
		Class:    k.Class,
		Attr:     k.Attr,
		Kind:     k.Kind.String(),
		Instance: k.Instance,
	}
}

func toChannel(k broadcast.ChannelKey, rs []broadcast.Receiver) types.Channel {
	out := types.Channel{Key: k.String(), Parts: KeyParts(k), Receivers: make([]types.Receiver, 0, len(rs))}
	for _, r := range rs {
		out.Receivers = append(out.Receivers, types.Receiver{Kind: r.Kind, Name: r.Name, Package: r.Package})
	}
	return out
}
