/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  folder_test.go
 */

package vfs

import (
  "testing"

  "github.com/adriagipas/ctrvfs/utils"
  "github.com/stretchr/testify/require"
)

// Una carpeta (imatge ja extreta) es projecta directament.
func TestOpenFolderSource( t *testing.T ) {

  fs:= utils.NewMemHostFS ()
  require.NoError ( t, fs.WriteAllBytes ( "/rom/Header.bin",
    make([]byte,0x200) ) )
  require.NoError ( t, fs.WriteAllBytes ( "/rom/RomFS/a/b.txt",
    []byte("folder") ) )

  rom,err:= Open ( fs, "/rom" )
  require.NoError ( t, err )
  defer rom.Close ()

  require.True ( t, rom.FileExists ( "/Header.bin" ) )
  data,err:= rom.ReadAllBytes ( "/RomFS/a/b.txt" )
  require.NoError ( t, err )
  require.Equal ( t, []byte("folder"), data )

  // La resolució no distingeix majúscules.
  require.True ( t, rom.FileExists ( "/romfs/A/B.TXT" ) )

  // Les escriptures van a la capa, no a la carpeta original.
  require.NoError ( t, rom.WriteAllBytes ( "/RomFS/a/b.txt",
    []byte("canviat") ) )
  data,err= rom.ReadAllBytes ( "/RomFS/a/b.txt" )
  require.NoError ( t, err )
  require.Equal ( t, []byte("canviat"), data )
  orig,err:= fs.ReadAllBytes ( "/rom/RomFS/a/b.txt" )
  require.NoError ( t, err )
  require.Equal ( t, []byte("folder"), orig )

  // I la reconstrucció del RomFS inclou la modificació.
  rebuilt,err:= rom.RebuildRomFS ( 0 )
  require.NoError ( t, err )
  require.NotEmpty ( t, rebuilt )

} // end TestOpenFolderSource


func TestOpenMissingSource( t *testing.T ) {

  fs:= utils.NewMemHostFS ()
  _,err:= Open ( fs, "/no/such/thing" )
  require.ErrorIs ( t, err, utils.ErrNotFound )

} // end TestOpenMissingSource
