/*
Package playbook 从 YAML 加载脚本化的 Worker，使 swarm 的运行可复现，
用于 CLI、演示与测试。

# 格式

	name: research
	policy: capability
	workers:
	  - name: planner
	    tasks:
	      plan:
	        output: "outline ready"
	        next_tasks: [search, write]
	  - name: searcher
	    handles: ["search*"]
	    default:
	      output: "3 sources"
	  - name: writer
	    tasks:
	      write:
	        error: "model overloaded"

next_tasks 可以是单个任务或任务列表；handles 为 path.Match 模式，
供 Capability 策略判断 Worker 是否接受任务。

# 核心类型

  - Playbook：具名 Worker 池，Pool 按声明顺序构建 swarm.Worker
  - Worker：按脚本回答任务，实现 swarm.Worker 与 swarm.TaskMatcher
  - Watcher：轮询 playbook 文件，解析成功的新版本通过 OnReload 回调下发
*/
package playbook
