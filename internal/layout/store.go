package layout

import (
	"log"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// storage keys
const (
	layoutsObject = "layouts"
	indexProperty = "_index"
)

// ErrSlotNotFound is returned when loading a slot that was never saved.
var ErrSlotNotFound = errors.New("layout slot not found")

// Backend is the subset of *gdata.Manager the store needs.
type Backend interface {
	SaveObjectProp(objectKey, propKey string, data []byte) error
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	ObjectPropExists(objectKey, propKey string) bool
}

// Store keeps named layout snapshots in per-user application storage.
type Store struct {
	backend Backend
}

// OpenStore opens gdata storage for appName.
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, errors.Wrapf(err, "open storage for %s", appName)
	}
	return NewStore(m), nil
}

// NewStore wraps an existing backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// SlotName normalises a user supplied slot name to a storage-safe key:
// lower case letters, digits and dashes.
func SlotName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// Save writes s under name and records the name in the slot index.
func (st *Store) Save(name string, s Snapshot) error {
	slot := SlotName(name)
	if slot == "" {
		return errors.Errorf("invalid slot name %q", name)
	}
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := st.backend.SaveObjectProp(layoutsObject, slot, data); err != nil {
		return errors.Wrapf(err, "save slot %s", slot)
	}
	names, err := st.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == slot {
			log.Printf("[layout] Overwrote slot %s (%d tokens)", slot, len(s.Placed))
			return nil
		}
	}
	names = append(names, slot)
	sort.Strings(names)
	if err := st.writeIndex(names); err != nil {
		return err
	}
	log.Printf("[layout] Saved slot %s (%d tokens)", slot, len(s.Placed))
	return nil
}

// Load reads the snapshot saved under name.
func (st *Store) Load(name string) (Snapshot, error) {
	slot := SlotName(name)
	if slot == "" || !st.backend.ObjectPropExists(layoutsObject, slot) {
		return Snapshot{}, errors.Wrapf(ErrSlotNotFound, "slot %q", name)
	}
	data, err := st.backend.LoadObjectProp(layoutsObject, slot)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "load slot %s", slot)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "slot %s", slot)
	}
	return s, nil
}

// List returns saved slot names in sorted order.
func (st *Store) List() ([]string, error) {
	if !st.backend.ObjectPropExists(layoutsObject, indexProperty) {
		return nil, nil
	}
	data, err := st.backend.LoadObjectProp(layoutsObject, indexProperty)
	if err != nil {
		return nil, errors.Wrap(err, "load slot index")
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, errors.Wrap(err, "parse slot index")
	}
	return names, nil
}

func (st *Store) writeIndex(names []string) error {
	data, err := yaml.Marshal(names)
	if err != nil {
		return errors.Wrap(err, "encode slot index")
	}
	return errors.Wrap(st.backend.SaveObjectProp(layoutsObject, indexProperty, data), "save slot index")
}
