// SPDX-License-Identifier: MPL-2.0

// The stagehand command tree:
//
//	stagehand install -c FILE            run stages.first_stage
//	stagehand stage NAME -c FILE         run one stage
//	stagehand task NAME -c FILE          run one task
//	stagehand list-tasks                 registered tasks, in order
//	stagehand default-config [-f FORMAT] template document
//
// Exit status is 0 on success or when the operator declines, 1 otherwise.
package cmd
