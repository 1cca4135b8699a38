package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/playgraph/internal/compiler"
	"github.com/aretw0/playgraph/pkg/domain"
)

// writePlaybook drops a playbook (and optional role files) into a temp dir
// and returns the playbook path.
func writePlaybook(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return filepath.Join(dir, "playbook.yml")
}

func TestLoadPlaybook_Blocks(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- name: web servers
  hosts: webservers
  pre_tasks:
    - name: install packages
      ansible.builtin.apt: {name: nginx}
      notify: restart nginx
  tasks:
    - name: copy config
      ansible.builtin.copy: {src: a, dest: b}
      notify:
        - restart nginx
        - reload firewall
  post_tasks:
    - name: smoke test
      ansible.builtin.uri: {url: http://localhost}
  handlers:
    - name: restart nginx
      ansible.builtin.service: {name: nginx, state: restarted}
    - name: reload firewall
      ansible.builtin.command: firewall-cmd --reload
      listen: firewall
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)
	require.Len(t, pb.Plays, 1)

	play := pb.Plays[0]
	assert.Equal(t, "web servers", play.Name)
	assert.Equal(t, "webservers", play.Hosts)
	assert.NotEmpty(t, play.ID)

	require.Len(t, play.PreTasks, 1)
	assert.Equal(t, "install packages", play.PreTasks[0].Name)
	assert.Equal(t, []string{"restart nginx"}, play.PreTasks[0].Notify)
	assert.True(t, play.PreTasks[0].Changed)

	require.Len(t, play.Tasks, 1)
	assert.Equal(t, []string{"restart nginx", "reload firewall"}, play.Tasks[0].Notify)

	require.Len(t, play.PostTasks, 1)
	assert.Equal(t, "smoke test", play.PostTasks[0].Name)

	require.Len(t, play.Handlers, 2)
	assert.Equal(t, "restart nginx", play.Handlers[0].Name)
	assert.Empty(t, play.Handlers[0].Listen)
	assert.Equal(t, []string{"firewall"}, play.Handlers[1].Listen)
}

func TestLoadPlaybook_FlushMarkerAndMeta(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- hosts: all
  tasks:
    - name: before
      ansible.builtin.command: "true"
    - meta: flush_handlers
    - meta: noop
    - name: after
      ansible.builtin.command: "true"
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)

	tasks := pb.Plays[0].Tasks
	require.Len(t, tasks, 3, "unsupported meta tasks are dropped")
	assert.Equal(t, domain.TaskRegular, tasks[0].Kind)
	assert.Equal(t, domain.TaskFlushHandlers, tasks[1].Kind)
	assert.True(t, tasks[1].IsFlush())
	assert.Equal(t, "after", tasks[2].Name)
}

func TestLoadPlaybook_ChangedWhen(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- hosts: all
  tasks:
    - name: pinned false
      ansible.builtin.command: "true"
      changed_when: false
    - name: pinned string false
      ansible.builtin.command: "true"
      changed_when: "False"
    - name: dynamic expression
      ansible.builtin.command: "true"
      changed_when: result.rc == 2
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)

	tasks := pb.Plays[0].Tasks
	assert.False(t, tasks[0].Changed)
	assert.False(t, tasks[1].Changed)
	assert.True(t, tasks[2].Changed, "undecidable expressions keep the notify edge")
}

func TestLoadPlaybook_WhenClause(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- hosts: all
  tasks:
    - name: single
      ansible.builtin.command: "true"
      when: ansible_os_family == "Debian"
    - name: multiple
      ansible.builtin.command: "true"
      when:
        - x is defined
        - y > 1
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)

	tasks := pb.Plays[0].Tasks
	assert.Equal(t, `[when: ansible_os_family == "Debian"]`, tasks[0].When)
	assert.Equal(t, "[when: x is defined and y > 1]", tasks[1].When)
}

func TestLoadPlaybook_NameFallbacks(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- hosts: localhost
  tasks:
    - ansible.builtin.debug: {msg: hi}
      when: true
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)

	play := pb.Plays[0]
	assert.Equal(t, "play #1 (localhost)", play.Name)
	assert.Equal(t, "ansible.builtin.debug", play.Tasks[0].Name)
}

func TestLoadPlaybook_Roles(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- name: with roles
  hosts: all
  roles:
    - common
    - role: web
  tasks:
    - name: play task
      ansible.builtin.command: "true"
  handlers:
    - name: play handler
      ansible.builtin.command: "true"
`,
		"roles/common/tasks/main.yml": `
- name: common task
  ansible.builtin.command: "true"
  notify: common handler
`,
		"roles/common/handlers/main.yml": `
- name: common handler
  ansible.builtin.command: "true"
`,
		"roles/web/tasks/main.yml": `
- name: web task
  ansible.builtin.command: "true"
`,
	})

	pb, err := compiler.NewLoader().LoadPlaybook(path)
	require.NoError(t, err)

	play := pb.Plays[0]

	// Role tasks follow the play's own tasks, in role inclusion order.
	var names []string
	for _, task := range play.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"play task", "common task", "web task"}, names)

	assert.Equal(t, "", play.Tasks[0].Role)
	assert.Equal(t, "common", play.Tasks[1].Role)
	assert.Equal(t, "web", play.Tasks[2].Role)

	// Role handlers follow the play's own handlers. A role without a
	// handlers file contributes none.
	require.Len(t, play.Handlers, 2)
	assert.Equal(t, "play handler", play.Handlers[0].Name)
	assert.Equal(t, "common handler", play.Handlers[1].Name)
	assert.Equal(t, "common", play.Handlers[1].Role)
}

func TestLoadPlaybook_ExcludeRoles(t *testing.T) {
	path := writePlaybook(t, map[string]string{
		"playbook.yml": `
- hosts: all
  roles: [common, web]
`,
		"roles/common/tasks/main.yml": `
- name: common task
  ansible.builtin.command: "true"
`,
		"roles/web/tasks/main.yml": `
- name: web task
  ansible.builtin.command: "true"
`,
	})

	loader := compiler.NewLoader(compiler.WithExcludeRoles("common"))
	pb, err := loader.LoadPlaybook(path)
	require.NoError(t, err)

	play := pb.Plays[0]
	require.Len(t, play.Tasks, 1)
	assert.Equal(t, "web task", play.Tasks[0].Name)
}

func TestLoadPlaybook_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := compiler.NewLoader().LoadPlaybook(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to read playbook")
	})

	t.Run("not a list of plays", func(t *testing.T) {
		path := writePlaybook(t, map[string]string{
			"playbook.yml": "name: just a mapping\n",
		})
		_, err := compiler.NewLoader().LoadPlaybook(path)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to parse playbook")
	})

	t.Run("meta handler", func(t *testing.T) {
		path := writePlaybook(t, map[string]string{
			"playbook.yml": `
- hosts: all
  handlers:
    - meta: flush_handlers
`,
		})
		_, err := compiler.NewLoader().LoadPlaybook(path)
		require.Error(t, err)
	})

	t.Run("bad role reference", func(t *testing.T) {
		path := writePlaybook(t, map[string]string{
			"playbook.yml": `
- hosts: all
  roles:
    - 42
`,
		})
		_, err := compiler.NewLoader().LoadPlaybook(path)
		require.Error(t, err)
		assert.ErrorContains(t, err, "unrecognized role reference")
	})
}
