package compiler

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/playgraph/internal/logging"
	"github.com/aretw0/playgraph/pkg/domain"
)

// metaFlushHandlers is the marker value that forces an explicit flush.
const metaFlushHandlers = "flush_handlers"

// reservedKeys are task keywords that are not the module action.
var reservedKeys = map[string]struct{}{
	"name": {}, "meta": {}, "notify": {}, "listen": {}, "changed_when": {},
	"when": {}, "tags": {}, "register": {}, "become": {}, "vars": {},
	"loop": {}, "with_items": {}, "ignore_errors": {}, "delegate_to": {},
}

// playSpec mirrors the recognized keys of one play document.
type playSpec struct {
	Name      string           `mapstructure:"name"`
	Hosts     any              `mapstructure:"hosts"`
	PreTasks  []map[string]any `mapstructure:"pre_tasks"`
	Roles     []any            `mapstructure:"roles"`
	Tasks     []map[string]any `mapstructure:"tasks"`
	PostTasks []map[string]any `mapstructure:"post_tasks"`
	Handlers  []map[string]any `mapstructure:"handlers"`
}

// taskSpec mirrors the recognized keys of one task or handler entry; the
// module action and its arguments land in Rest.
type taskSpec struct {
	Name        string         `mapstructure:"name"`
	Meta        string         `mapstructure:"meta"`
	Notify      any            `mapstructure:"notify"`
	Listen      any            `mapstructure:"listen"`
	ChangedWhen any            `mapstructure:"changed_when"`
	When        any            `mapstructure:"when"`
	Rest        map[string]any `mapstructure:",remain"`
}

// Loader reads playbook files and resolves their roles from the conventional
// roles/<name>/{tasks,handlers}/main.yml layout next to the playbook.
type Loader struct {
	logger       *slog.Logger
	excludeRoles map[string]struct{}
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a structured logger for the loader.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithExcludeRoles skips the named roles entirely: neither their tasks nor
// their handlers are loaded.
func WithExcludeRoles(names ...string) LoaderOption {
	return func(l *Loader) {
		for _, n := range names {
			l.excludeRoles[n] = struct{}{}
		}
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:       logging.NewNop(),
		excludeRoles: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadPlaybook parses the playbook at path into the domain model. Role tasks
// are appended after the play's own tasks (tagged with their role), role
// handlers after the play's own handlers, both in inclusion order.
func (l *Loader) LoadPlaybook(path string) (*domain.Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playbook: %w", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse playbook %s: %w", path, err)
	}

	l.logger.Info("parsing playbook", "path", path, "plays", len(raw))

	pb := &domain.Playbook{Name: path}
	baseDir := filepath.Dir(path)

	for i, rawPlay := range raw {
		play, err := l.loadPlay(rawPlay, i, baseDir)
		if err != nil {
			return nil, fmt.Errorf("play #%d: %w", i+1, err)
		}
		pb.Plays = append(pb.Plays, play)
	}
	return pb, nil
}

func (l *Loader) loadPlay(raw map[string]any, index int, baseDir string) (*domain.Play, error) {
	var spec playSpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode play: %w", err)
	}

	hosts := strings.Join(toStrings(spec.Hosts), ",")
	name := spec.Name
	if name == "" {
		// Unnamed plays display like the reference tool: the host pattern.
		name = fmt.Sprintf("play #%d (%s)", index+1, hosts)
	}

	play := &domain.Play{
		ID:    domain.GenerateID("play_"),
		Name:  name,
		Hosts: hosts,
	}

	var err error
	if play.PreTasks, err = l.loadTasks(spec.PreTasks, ""); err != nil {
		return nil, fmt.Errorf("pre_tasks: %w", err)
	}
	if play.Tasks, err = l.loadTasks(spec.Tasks, ""); err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	if play.PostTasks, err = l.loadTasks(spec.PostTasks, ""); err != nil {
		return nil, fmt.Errorf("post_tasks: %w", err)
	}
	if play.Handlers, err = l.loadHandlers(spec.Handlers, ""); err != nil {
		return nil, fmt.Errorf("handlers: %w", err)
	}

	for _, ref := range spec.Roles {
		roleName, err := roleName(ref)
		if err != nil {
			return nil, err
		}
		if _, skip := l.excludeRoles[roleName]; skip {
			l.logger.Debug("role excluded", "role", roleName)
			continue
		}
		if err := l.loadRole(play, roleName, baseDir); err != nil {
			return nil, fmt.Errorf("role %q: %w", roleName, err)
		}
	}

	l.logger.Debug("play loaded",
		"play", play.Name,
		"pre_tasks", len(play.PreTasks),
		"tasks", len(play.Tasks),
		"post_tasks", len(play.PostTasks),
		"handlers", len(play.Handlers))

	return play, nil
}

// loadRole appends the role's tasks and handlers to the play, preserving
// inclusion order relative to other roles.
func (l *Loader) loadRole(play *domain.Play, role, baseDir string) error {
	roleDir := filepath.Join(baseDir, "roles", role)

	tasks, err := l.loadTaskFile(filepath.Join(roleDir, "tasks", "main.yml"), role)
	if err != nil {
		return err
	}
	play.Tasks = append(play.Tasks, tasks...)

	handlerMaps, err := readTaskList(filepath.Join(roleDir, "handlers", "main.yml"))
	if err != nil {
		return err
	}
	handlers, err := l.loadHandlers(handlerMaps, role)
	if err != nil {
		return err
	}
	play.Handlers = append(play.Handlers, handlers...)
	return nil
}

func (l *Loader) loadTaskFile(path, role string) ([]domain.Task, error) {
	maps, err := readTaskList(path)
	if err != nil {
		return nil, err
	}
	return l.loadTasks(maps, role)
}

// readTaskList reads a YAML file holding a list of tasks. A missing file is
// not an error: roles commonly ship tasks without handlers or vice versa.
func readTaskList(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var maps []map[string]any
	if err := yaml.Unmarshal(data, &maps); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return maps, nil
}

func (l *Loader) loadTasks(maps []map[string]any, role string) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(maps))
	for i, m := range maps {
		task, ok, err := l.loadTask(m, role)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if ok {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// loadTask decodes one task entry. Unsupported meta tasks are dropped (second
// return false), flush_handlers becomes a marker task.
func (l *Loader) loadTask(m map[string]any, role string) (domain.Task, bool, error) {
	var spec taskSpec
	if err := mapstructure.Decode(m, &spec); err != nil {
		return domain.Task{}, false, fmt.Errorf("failed to decode task: %w", err)
	}

	if spec.Meta != "" {
		if spec.Meta == metaFlushHandlers {
			return domain.Task{Kind: domain.TaskFlushHandlers, Role: role}, true, nil
		}
		l.logger.Debug("meta task skipped", "meta", spec.Meta)
		return domain.Task{}, false, nil
	}

	name := spec.Name
	if name == "" {
		name = actionName(spec.Rest)
	}

	return domain.Task{
		Name:    name,
		Kind:    domain.TaskRegular,
		Changed: changedPredicate(spec.ChangedWhen),
		Notify:  toStrings(spec.Notify),
		When:    convertWhenToStr(spec.When),
		Role:    role,
	}, true, nil
}

func (l *Loader) loadHandlers(maps []map[string]any, role string) ([]domain.Handler, error) {
	handlers := make([]domain.Handler, 0, len(maps))
	for i, m := range maps {
		var spec taskSpec
		if err := mapstructure.Decode(m, &spec); err != nil {
			return nil, fmt.Errorf("entry %d: failed to decode handler: %w", i, err)
		}
		if spec.Meta != "" {
			return nil, fmt.Errorf("entry %d: a handler cannot be a meta task", i)
		}
		task, _, err := l.loadTask(m, role)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		handlers = append(handlers, domain.Handler{
			Task:   task,
			Listen: toStrings(spec.Listen),
		})
	}
	return handlers, nil
}

// roleName accepts both role reference forms: a bare string or a map with a
// "role" (or "name") key.
func roleName(ref any) (string, error) {
	switch v := ref.(type) {
	case string:
		return v, nil
	case map[string]any:
		if n, ok := v["role"].(string); ok {
			return n, nil
		}
		if n, ok := v["name"].(string); ok {
			return n, nil
		}
	}
	return "", fmt.Errorf("unrecognized role reference: %v", ref)
}

// actionName falls back to the module action key when a task has no name,
// picking the lexicographically first candidate for determinism.
func actionName(rest map[string]any) string {
	candidates := make([]string, 0, len(rest))
	for k := range rest {
		if _, reserved := reservedKeys[k]; !reserved {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

// changedPredicate: a task reports a change unless changed_when pins it to
// false. Expressions we cannot evaluate statically are treated as changed,
// which errs on drawing the notify edge rather than hiding it.
func changedPredicate(changedWhen any) bool {
	switch v := changedWhen.(type) {
	case bool:
		return v
	case string:
		return !strings.EqualFold(strings.TrimSpace(v), "false")
	default:
		return true
	}
}

// toStrings normalizes a scalar-or-list YAML value to a string slice.
func toStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case []string:
		return val
	default:
		return []string{fmt.Sprint(val)}
	}
}

// convertWhenToStr renders a when clause for display, joining multiple
// conditions with "and" like the reference tool does.
func convertWhenToStr(when any) string {
	conditions := toStrings(when)
	if len(conditions) == 0 {
		return ""
	}
	return strings.ReplaceAll(
		fmt.Sprintf("[when: %s]", strings.Join(conditions, " and ")), "\n", "")
}
